package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scrip-engine/internal/models"
	"scrip-engine/pkg/utils"
)

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <scrip-key>",
		Short: "Show the live quote for a scrip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scrip, err := models.ParseScripKey(args[0])
			if err != nil {
				return err
			}

			ticker, err := app.Tickers.FetchTicker(context.Background(), scrip)
			if err != nil {
				return err
			}

			fmt.Println()
			color.Cyan("Quote - %s", scrip.Key())
			fmt.Println("─────────────────────────────────────────")
			fmt.Printf("LTP:    %s\n", utils.FormatIndianCurrency(ticker.LTP))
			fmt.Printf("Open:   %.2f  High: %.2f  Low: %.2f  Close: %.2f\n",
				ticker.OHLC.Open, ticker.OHLC.High, ticker.OHLC.Low, ticker.OHLC.Close)
			fmt.Printf("Volume: %s\n", utils.FormatQuantity(ticker.OHLC.Volume))
			fmt.Printf("Market: %s\n", utils.GetMarketStatus())
			return nil
		},
	}
}

func newDepthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "depth <scrip-key>",
		Short: "Show the current depth snapshot for a scrip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scrip, err := models.ParseScripKey(args[0])
			if err != nil {
				return err
			}

			depth, err := app.Tickers.FetchDepth(context.Background(), scrip)
			if err != nil {
				return err
			}

			fmt.Println()
			color.Cyan("Depth - %s", scrip.Key())
			fmt.Println("─────────────────────────────────────────")
			fmt.Printf("%-20s %-20s\n", "BID (qty @ price)", "ASK (qty @ price)")
			levels := len(depth.Bid)
			if len(depth.Ask) > levels {
				levels = len(depth.Ask)
			}
			for i := 0; i < levels; i++ {
				bid, ask := "", ""
				if i < len(depth.Bid) {
					bid = fmt.Sprintf("%d @ %.2f", depth.Bid[i].Quantity, depth.Bid[i].Price)
				}
				if i < len(depth.Ask) {
					ask = fmt.Sprintf("%d @ %.2f", depth.Ask[i].Quantity, depth.Ask[i].Price)
				}
				fmt.Printf("%-20s %-20s\n", bid, ask)
			}
			fmt.Printf("\nTotal bid: %s  Total ask: %s\n",
				utils.FormatQuantity(depth.TotalBid), utils.FormatQuantity(depth.TotalAsk))
			return nil
		},
	}
}
