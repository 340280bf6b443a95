// Package trading provides the order execution engine, basket orders and
// position accounting.
package trading

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"scrip-engine/internal/errors"
	"scrip-engine/internal/marketdata"
	"scrip-engine/internal/models"
)

// AvgFillPrice computes the average fill price for an order against a
// depth snapshot.
//
// Market orders walk the required side best-first: buys consume the ask
// levels, sells consume the bid levels. Each level contributes
// min(remaining, level quantity) at the level's price; the walk advances
// only once a level is fully consumed. An empty side fails with
// ErrEmptyDepth; exhausting all levels with quantity still open fails
// with a DepthError carrying the unfilled remainder on that side.
//
// Limit orders bypass the walk entirely and return the stated limit
// price, with no depth availability check.
//
// The average is computed with standard float64 division and no rounding
// step. Non-finite results are rejected rather than returned.
func AvgFillPrice(order models.Order, depth models.Depth) (float64, error) {
	if err := order.Validate(); err != nil {
		return 0, err
	}

	if order.Kind == models.OrderKindLimit {
		return order.Price, nil
	}

	levels := depth.Side(order.IsBuy())
	if len(levels) == 0 {
		return 0, errors.ErrEmptyDepth
	}

	side := "bid"
	if order.IsBuy() {
		side = "ask"
	}

	remaining := order.AbsQuantity()
	var cost float64
	for _, level := range levels {
		if remaining == 0 {
			break
		}
		filled := level.Quantity
		if remaining < filled {
			filled = remaining
		}
		cost += float64(filled) * level.Price
		remaining -= filled
	}
	if remaining > 0 {
		return 0, errors.NewDepthError(order.Scrip.Key(), side, remaining)
	}

	avg := cost / float64(order.AbsQuantity())
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 0, errors.ErrNonFinitePrice
	}
	return avg, nil
}

// Venue is where an executed order would be handed off to an external
// execution system. Real exchange connectivity is out of scope, so the
// default venue accepts every order without doing anything.
type Venue interface {
	Place(ctx context.Context, order models.Order, avgPrice float64) error
}

type noopVenue struct{}

func (noopVenue) Place(context.Context, models.Order, float64) error { return nil }

// NoopVenue returns the placeholder venue.
func NoopVenue() Venue { return noopVenue{} }

// Executor converts orders into transactions against live depth. It holds
// its collaborators explicitly; nothing here is shared global state.
type Executor struct {
	depth  marketdata.DepthProvider
	venue  Venue
	logger zerolog.Logger
}

// NewExecutor creates an executor over a depth provider.
func NewExecutor(depth marketdata.DepthProvider, logger zerolog.Logger) *Executor {
	return &Executor{
		depth:  depth,
		venue:  noopVenue{},
		logger: logger,
	}
}

// WithVenue replaces the placeholder venue.
func (e *Executor) WithVenue(v Venue) *Executor {
	e.venue = v
	return e
}

// AvgPrice fetches a fresh depth snapshot and computes the average fill
// price for the order. The snapshot is fetched once; market state moving
// between fetch and use is an accepted staleness window.
func (e *Executor) AvgPrice(ctx context.Context, order models.Order) (float64, error) {
	if err := order.Validate(); err != nil {
		return 0, err
	}
	if order.Kind == models.OrderKindLimit {
		return order.Price, nil
	}

	depth, err := e.depth.FetchDepth(ctx, order.Scrip)
	if err != nil {
		return 0, errors.Wrapf(err, "fetching depth for %s", order.Scrip.Key())
	}
	return AvgFillPrice(order, depth)
}

// Execute fills the order and stamps a transaction with the current
// wall-clock time. The order is also handed to the venue, which is a
// no-op unless one was wired in.
func (e *Executor) Execute(ctx context.Context, order models.Order) (models.Transaction, error) {
	avgPrice, err := e.AvgPrice(ctx, order)
	if err != nil {
		return models.Transaction{}, err
	}

	if err := e.venue.Place(ctx, order, avgPrice); err != nil {
		return models.Transaction{}, errors.Wrap(err, "placing order at venue")
	}

	tx := models.Transaction{
		Scrip:      order.Scrip,
		Quantity:   order.Quantity,
		AvgPrice:   avgPrice,
		ExecutedAt: time.Now(),
	}

	e.logger.Info().
		Str("event", "execution").
		Str("scrip", order.Scrip.Key()).
		Int64("quantity", order.Quantity).
		Float64("avg_price", avgPrice).
		Msg("Order executed")

	return tx, nil
}

// Margin returns the margin required for the order: the average fill
// price for market orders, or the flat limit price.
func (e *Executor) Margin(ctx context.Context, order models.Order) (float64, error) {
	return e.AvgPrice(ctx, order)
}
