package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scrip-engine/internal/marketdata"
	"scrip-engine/internal/models"
)

func newChainCmd(app *App) *cobra.Command {
	var minStrike, maxStrike int64
	var withQuotes bool

	cmd := &cobra.Command{
		Use:   "chain <name> <exchange> <expiry DD/MM/YYYY>",
		Short: "Show the option chain for an underlying and expiry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			exchange, err := models.ParseExchange(args[1])
			if err != nil {
				return err
			}
			expiry, err := time.Parse(models.ExpiryFormat, args[2])
			if err != nil {
				return fmt.Errorf("invalid expiry %q, expected DD/MM/YYYY", args[2])
			}

			chain, err := app.Tickers.BuildOptionChain(context.Background(), args[0], exchange, expiry, nil)
			if err != nil {
				return err
			}

			if minStrike > 0 || maxStrike > 0 {
				chain.FilterStrikes(func(strike int64) bool {
					if minStrike > 0 && strike < minStrike {
						return false
					}
					if maxStrike > 0 && strike > maxStrike {
						return false
					}
					return true
				})
			}

			var quotes map[string]float64
			if withQuotes {
				scrips := make([]models.Scrip, 0, 2*len(chain.Calls))
				for _, strike := range chain.Strikes() {
					call, put, err := chain.AtStrike(strike)
					if err != nil {
						return err
					}
					scrips = append(scrips, call, put)
				}
				quotes, err = marketdata.BulkPrices(context.Background(), app.Tickers, scrips, 0)
				if err != nil {
					return err
				}
			}

			fmt.Println()
			color.Cyan("Option Chain - %s %s %s", args[0], args[1], args[2])
			fmt.Println("─────────────────────────────────────────")
			if withQuotes {
				fmt.Printf("%10s %10s %10s\n", "CALL LTP", "STRIKE", "PUT LTP")
			} else {
				fmt.Printf("%-40s %10s %-40s\n", "CALL", "STRIKE", "PUT")
			}
			for _, strike := range chain.Strikes() {
				call, put, err := chain.AtStrike(strike)
				if err != nil {
					return err
				}
				if withQuotes {
					fmt.Printf("%10s %10d %10s\n", chainQuote(quotes, call), strike, chainQuote(quotes, put))
				} else {
					fmt.Printf("%-40s %10d %-40s\n", call.Key(), strike, put.Key())
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&minStrike, "min-strike", 0, "Drop strikes below this value")
	cmd.Flags().Int64Var(&maxStrike, "max-strike", 0, "Drop strikes above this value")
	cmd.Flags().BoolVar(&withQuotes, "quotes", false, "Fetch and show last traded prices per contract")
	return cmd
}

func chainQuote(quotes map[string]float64, scrip models.Scrip) string {
	ltp, ok := quotes[scrip.Key()]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", ltp)
}
