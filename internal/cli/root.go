// Package cli provides the command-line interface for the scrip engine.
package cli

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"scrip-engine/internal/config"
	"scrip-engine/internal/marketdata"
	"scrip-engine/internal/store"
	"scrip-engine/internal/trading"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Tickers  *marketdata.RedisTickers
	Store    *store.SQLiteStore
	Meta     *store.MetaCache
	Executor *trading.Executor
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	app.Tickers = marketdata.NewRedisTickers(client, logger)
	app.Executor = trading.NewExecutor(app.Tickers, logger)

	dataStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, metadata commands unavailable")
	} else {
		app.Store = dataStore
		app.Meta = store.NewMetaCache(dataStore, cfg.Store.MetaCacheTTL)
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "scripd",
		Short: "Scrip Engine - order execution and position accounting CLI",
		Long: `Scrip Engine models tradeable scrips, live order-book depth and the
execution of orders against that depth.

Market orders walk the cached depth snapshot to an average fill price;
executed transactions fold into positions with running cost basis and
unrealized P&L. Live tickers come from the Redis ticker store, scrip
metadata from the local SQLite store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	rootCmd.AddCommand(
		newQuoteCmd(app),
		newDepthCmd(app),
		newOrderCmd(app),
		newBasketCmd(app),
		newChainCmd(app),
		newCandlesCmd(app),
		newInfoCmd(app),
		newImportCmd(app),
	)

	return rootCmd
}
