package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scrip-engine/pkg/utils"
)

func newInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info <scrip-name>",
		Short: "Show static metadata for a scrip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Meta == nil {
				return fmt.Errorf("metadata store unavailable")
			}

			info, err := app.Meta.Lookup(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Println()
			color.Cyan("Scrip Info - %s", info.Scrip)
			fmt.Println("─────────────────────────────────────────")
			fmt.Printf("Type:      %s\n", info.Type)
			fmt.Printf("Exchange:  %s\n", info.Exchange)
			fmt.Printf("Currency:  %s\n", info.Currency)
			fmt.Printf("Session:   %s - %s\n", info.OpenTime, info.CloseTime)
			if info.FreeFloatMarketCap > 0 {
				fmt.Printf("FF MCap:   %s\n", utils.FormatIndianCurrency(info.FreeFloatMarketCap))
			}
			if len(info.Constituents) > 0 {
				fmt.Println("\nConstituents:")
				names := make([]string, 0, len(info.Constituents))
				for name := range info.Constituents {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Printf("  %-20s %6.2f%%\n", name, info.Constituents[name])
				}
			}
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <metadata-csv>",
		Short: "Import a scrip metadata CSV dump into the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("metadata store unavailable")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			count, err := app.Store.ImportScripInfoCSV(context.Background(), f)
			if err != nil {
				return err
			}
			color.Green("✓ Imported %d scrips", count)
			return nil
		},
	}
}
