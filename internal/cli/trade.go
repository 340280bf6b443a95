package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scrip-engine/internal/models"
	"scrip-engine/internal/trading"
	"scrip-engine/pkg/utils"
)

func newOrderCmd(app *App) *cobra.Command {
	var limitPrice float64
	var execute bool

	cmd := &cobra.Command{
		Use:   "order <scrip-key> <quantity>",
		Short: "Preview or execute a single order against live depth",
		Long: `Preview or execute a single order. Quantity is signed: positive buys,
negative sells. Market orders walk the cached depth snapshot; --limit
executes blindly at the stated price.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseOrderArgs(args[0], args[1], limitPrice)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if !execute {
				avgPrice, err := app.Executor.AvgPrice(ctx, order)
				if err != nil {
					return err
				}
				fmt.Println()
				color.Cyan("Order Preview - %s", order.Scrip.Key())
				fmt.Println("─────────────────────────────────────────")
				fmt.Printf("Quantity:  %s\n", utils.FormatQuantity(order.Quantity))
				fmt.Printf("Avg price: %.4f\n", avgPrice)
				fmt.Printf("Value:     %s\n", utils.FormatIndianCurrency(avgPrice*float64(order.AbsQuantity())))
				return nil
			}

			tx, err := app.Executor.Execute(ctx, order)
			if err != nil {
				return err
			}
			fmt.Println()
			color.Green("✓ Executed %s x %d @ %.4f",
				tx.Scrip.Key(), tx.Quantity, tx.AvgPrice)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&limitPrice, "limit", "l", 0, "Limit price (market order if omitted)")
	cmd.Flags().BoolVar(&execute, "execute", false, "Execute instead of preview")
	return cmd
}

func newBasketCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basket",
		Short: "Execute or margin a basket of orders",
	}
	cmd.AddCommand(newBasketExecCmd(app), newBasketMarginCmd(app))
	return cmd
}

func newBasketExecCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <scrip-key:qty> [<scrip-key:qty>...]",
		Short: "Execute a basket and show the resulting position",
		Long: `Execute every order in sequence and fold the transactions into one
position. Execution stops at the first failing order; nothing already
executed is rolled back.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			basket, err := parseBasketArgs(args)
			if err != nil {
				return err
			}

			ctx := context.Background()
			position, err := basket.Execute(ctx, app.Executor)
			if err != nil {
				return err
			}

			fmt.Println()
			color.Cyan("Basket Position (%d orders)", len(basket.Orders))
			fmt.Println("─────────────────────────────────────────")
			fmt.Printf("%-30s %12s %12s\n", "Scrip", "Quantity", "Avg Price")
			for _, h := range position.Holdings {
				fmt.Printf("%-30s %12s %12.4f\n",
					h.Scrip.Key(), utils.FormatQuantity(h.Quantity), h.AvgPrice)
			}

			pnl, err := position.PnL(ctx, app.Tickers)
			if err != nil {
				app.Logger.Warn().Err(err).Msg("P&L unavailable")
				return nil
			}
			fmt.Printf("\nUnrealized P&L: %s\n", utils.FormatPnL(pnl))
			return nil
		},
	}
}

func newBasketMarginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "margin <scrip-key:qty> [<scrip-key:qty>...]",
		Short: "Compute the total margin required for a basket",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			basket, err := parseBasketArgs(args)
			if err != nil {
				return err
			}

			margin, err := basket.Margin(context.Background(), app.Executor)
			if err != nil {
				return err
			}
			fmt.Printf("Required margin: %s\n", utils.FormatIndianCurrency(margin))
			return nil
		},
	}
}

func parseOrderArgs(key, qty string, limitPrice float64) (models.Order, error) {
	scrip, err := models.ParseScripKey(key)
	if err != nil {
		return models.Order{}, err
	}
	quantity, err := strconv.ParseInt(qty, 10, 64)
	if err != nil {
		return models.Order{}, fmt.Errorf("invalid quantity %q: %w", qty, err)
	}

	var order models.Order
	if limitPrice > 0 {
		order = models.NewLimitOrder(scrip, quantity, limitPrice)
	} else {
		order = models.NewMarketOrder(scrip, quantity)
	}
	return order, order.Validate()
}

// parseBasketArgs parses "SCRIP:KEY:PARTS:qty" arguments, where the last
// colon-separated token is the signed quantity.
func parseBasketArgs(args []string) (*trading.BasketOrder, error) {
	basket := trading.NewBasketOrder()
	for _, arg := range args {
		sep := strings.LastIndex(arg, ":")
		if sep <= 0 || sep == len(arg)-1 {
			return nil, fmt.Errorf("invalid basket leg %q, expected <scrip-key>:<qty>", arg)
		}
		order, err := parseOrderArgs(arg[:sep], arg[sep+1:], 0)
		if err != nil {
			return nil, err
		}
		basket.Add(order)
	}
	return basket, nil
}
