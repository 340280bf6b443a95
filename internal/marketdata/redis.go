package marketdata

import (
	"context"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"scrip-engine/internal/errors"
	"scrip-engine/internal/models"
)

// RedisTickers reads live ticker state from Redis. A ticker lives in one
// hash keyed by the scrip's canonical key with the fields
//
//	ltp, open, high, low, close, total_volume
//	depth, total_bid, total_ask
//	{bid|ask}:{rate|quantity}:{level index}
//
// Bid levels are stored best-first, ask levels best-first. Every field is
// parsed into a typed error on malformed data; a bad hash never panics.
type RedisTickers struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisTickers creates a provider over an existing Redis client.
func NewRedisTickers(client *redis.Client, logger zerolog.Logger) *RedisTickers {
	return &RedisTickers{client: client, logger: logger}
}

// FetchTicker loads and decodes the full ticker hash for a scrip.
func (r *RedisTickers) FetchTicker(ctx context.Context, scrip models.Scrip) (models.Ticker, error) {
	key := scrip.Key()
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return models.Ticker{}, errors.NewDataError("ticker", key, "redis HGETALL failed", err)
	}
	if len(fields) == 0 {
		return models.Ticker{}, errors.NewDataError("ticker", key, "no ticker hash", errors.ErrDataNotFound)
	}

	ticker, err := ParseTicker(fields)
	if err != nil {
		return models.Ticker{}, errors.NewDataError("ticker", key, "malformed ticker hash", err)
	}
	return ticker, nil
}

// FetchDepth loads the current depth snapshot for a scrip.
func (r *RedisTickers) FetchDepth(ctx context.Context, scrip models.Scrip) (models.Depth, error) {
	ticker, err := r.FetchTicker(ctx, scrip)
	if err != nil {
		return models.Depth{}, err
	}
	return ticker.Depth, nil
}

// LastPrice loads the last traded price of a scrip.
func (r *RedisTickers) LastPrice(ctx context.Context, scrip models.Scrip) (float64, error) {
	ticker, err := r.FetchTicker(ctx, scrip)
	if err != nil {
		return 0, err
	}
	return ticker.LTP, nil
}

// ParseTicker decodes a ticker hash into a Ticker.
func ParseTicker(fields map[string]string) (models.Ticker, error) {
	var ticker models.Ticker
	for field, value := range fields {
		if err := applyTickerField(&ticker, field, value); err != nil {
			return models.Ticker{}, err
		}
	}
	return ticker, nil
}

func applyTickerField(t *models.Ticker, field, value string) error {
	switch field {
	case "ltp":
		return setPrice(&t.LTP, field, value)
	case "open":
		return setPrice(&t.OHLC.Open, field, value)
	case "high":
		return setPrice(&t.OHLC.High, field, value)
	case "low":
		return setPrice(&t.OHLC.Low, field, value)
	case "close":
		return setPrice(&t.OHLC.Close, field, value)
	case "total_volume":
		return setQuantity(&t.OHLC.Volume, field, value)
	case "depth":
		levels, err := strconv.Atoi(value)
		if err != nil || levels < 0 {
			return errors.NewParseError(field, value, "expected non-negative integer")
		}
		t.Depth.Levels = levels
		return nil
	case "total_bid":
		return setQuantity(&t.Depth.TotalBid, field, value)
	case "total_ask":
		return setQuantity(&t.Depth.TotalAsk, field, value)
	default:
		return applyDepthField(&t.Depth, field, value)
	}
}

// applyDepthField handles the per-level keys, e.g. "bid:rate:0" or
// "ask:quantity:3". Levels may arrive in any order, so each side is
// extended to the highest index seen.
func applyDepthField(d *models.Depth, field, value string) error {
	parts := strings.Split(field, ":")
	if len(parts) != 3 {
		return errors.NewParseError("ticker_field", field, "unmapped ticker field")
	}

	var side *[]models.DepthLevel
	switch parts[0] {
	case "bid":
		side = &d.Bid
	case "ask":
		side = &d.Ask
	default:
		return errors.NewParseError("ticker_field", field, "expected bid or ask")
	}

	idx, err := strconv.Atoi(parts[2])
	if err != nil || idx < 0 {
		return errors.NewParseError("depth_level", field, "expected non-negative level index")
	}
	for len(*side) <= idx {
		*side = append(*side, models.DepthLevel{})
	}

	switch parts[1] {
	case "rate":
		return setPrice(&(*side)[idx].Price, field, value)
	case "quantity":
		qty, err := strconv.ParseInt(value, 10, 64)
		if err != nil || qty < 0 {
			return errors.NewParseError(field, value, "expected non-negative integer quantity")
		}
		(*side)[idx].Quantity = qty
		return nil
	default:
		return errors.NewParseError("ticker_field", field, "expected rate or quantity")
	}
}

func setPrice(target *float64, field, value string) error {
	price, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.NewParseError(field, value, "expected decimal price")
	}
	*target = price
	return nil
}

func setQuantity(target *int64, field, value string) error {
	qty, err := strconv.ParseInt(value, 10, 64)
	if err != nil || qty < 0 {
		return errors.NewParseError(field, value, "expected non-negative integer")
	}
	*target = qty
	return nil
}
