package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scrip-engine/internal/models"
	"scrip-engine/pkg/utils"
)

func newCandlesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candles",
		Short: "Inspect and archive cached candles",
	}
	cmd.AddCommand(newCandlesLatestCmd(app), newCandlesArchiveCmd(app))
	return cmd
}

func newCandlesLatestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <scrip-key>",
		Short: "Show the most recent cached candle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scrip, err := models.ParseScripKey(args[0])
			if err != nil {
				return err
			}

			candle, err := app.Tickers.LatestCandle(context.Background(), scrip)
			if err != nil {
				return err
			}

			fmt.Println()
			color.Cyan("Latest Candle - %s", scrip.Key())
			fmt.Println("─────────────────────────────────────────")
			fmt.Printf("Timestamp: %s\n", candle.Timestamp.Format("2006-01-02 15:04:05"))
			fmt.Printf("O: %.2f  H: %.2f  L: %.2f  C: %.2f\n",
				candle.Open, candle.High, candle.Low, candle.Close)
			fmt.Printf("Volume: %s\n", utils.FormatQuantity(candle.Volume))
			return nil
		},
	}
}

func newCandlesArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <scrip-key>",
		Short: "Archive all cached candles for a scrip into the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("metadata store unavailable")
			}
			scrip, err := models.ParseScripKey(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			retryCfg := utils.DefaultRetryConfig()
			timestamps, err := utils.RetryWithResult(ctx, retryCfg, func() ([]time.Time, error) {
				return app.Tickers.CandleTimestamps(ctx, scrip)
			})
			if err != nil {
				return err
			}

			archived := 0
			for _, ts := range timestamps {
				candle, err := utils.RetryWithResult(ctx, retryCfg, func() (models.Candle, error) {
					return app.Tickers.CandleAt(ctx, scrip, ts)
				})
				if err != nil {
					return err
				}
				if err := app.Store.ArchiveCandle(ctx, scrip, candle); err != nil {
					return err
				}
				archived++
			}
			fmt.Printf("Archived %d candles for %s\n", archived, scrip.Key())
			return nil
		},
	}
}
