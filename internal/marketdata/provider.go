// Package marketdata provides market data collaborator interfaces and the
// Redis-backed implementation.
package marketdata

import (
	"context"

	"scrip-engine/internal/models"
)

// DepthProvider fetches the current depth snapshot for a scrip. Levels are
// returned sorted best-first per side. Implementations are handles passed
// explicitly to their consumers; there is no process-wide singleton.
type DepthProvider interface {
	FetchDepth(ctx context.Context, scrip models.Scrip) (models.Depth, error)
}

// PriceProvider fetches the last traded price of a scrip. Used by P&L
// computation, one fresh lookup per scrip.
type PriceProvider interface {
	LastPrice(ctx context.Context, scrip models.Scrip) (float64, error)
}

// TickerProvider fetches the full live snapshot for a scrip.
type TickerProvider interface {
	FetchTicker(ctx context.Context, scrip models.Scrip) (models.Ticker, error)
}
