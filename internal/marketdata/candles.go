package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"scrip-engine/internal/errors"
	"scrip-engine/internal/models"
)

// CandleTimeFormat is the timestamp encoding used in candle keys.
const CandleTimeFormat = "2006-01-02T15:04:05"

// candleKey builds the Redis key for one candle: <scrip key>:CANDLES:<ts>.
func candleKey(scrip models.Scrip, ts time.Time) string {
	return fmt.Sprintf("%s:CANDLES:%s", scrip.Key(), ts.UTC().Format(CandleTimeFormat))
}

// WriteCandle stores a candle hash under the scrip's candle keyspace with
// the given expiry.
func (r *RedisTickers) WriteCandle(ctx context.Context, scrip models.Scrip, candle models.Candle, ttl time.Duration) error {
	key := candleKey(scrip, candle.Timestamp)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key,
		"open", candle.Open,
		"high", candle.High,
		"low", candle.Low,
		"close", candle.Close,
		"volume", candle.Volume,
	)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.NewDataError("candle", scrip.Key(), "writing candle", err)
	}
	return nil
}

// CandleTimestamps lists the timestamps of all cached candles for a
// scrip, sorted ascending.
func (r *RedisTickers) CandleTimestamps(ctx context.Context, scrip models.Scrip) ([]time.Time, error) {
	prefix := scrip.Key() + ":CANDLES:"
	pattern := prefix + "*"

	var timestamps []time.Time
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		raw := strings.TrimPrefix(iter.Val(), prefix)
		ts, err := time.Parse(CandleTimeFormat, raw)
		if err != nil {
			return nil, errors.NewParseError("candle_timestamp", raw, "expected "+CandleTimeFormat)
		}
		timestamps = append(timestamps, ts.UTC())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.NewDataError("candle", scrip.Key(), "scanning candle keys", err)
	}

	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })
	return timestamps, nil
}

// CandleAt loads the candle for a scrip at an exact timestamp.
func (r *RedisTickers) CandleAt(ctx context.Context, scrip models.Scrip, ts time.Time) (models.Candle, error) {
	key := candleKey(scrip, ts)
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return models.Candle{}, errors.NewDataError("candle", scrip.Key(), "redis HGETALL failed", err)
	}
	if len(fields) == 0 {
		return models.Candle{}, errors.NewDataError("candle", scrip.Key(), "no candle at "+ts.UTC().Format(CandleTimeFormat), errors.ErrDataNotFound)
	}

	candle := models.Candle{Timestamp: ts.UTC()}
	for field, value := range fields {
		switch field {
		case "open":
			err = setPrice(&candle.Open, field, value)
		case "high":
			err = setPrice(&candle.High, field, value)
		case "low":
			err = setPrice(&candle.Low, field, value)
		case "close":
			err = setPrice(&candle.Close, field, value)
		case "volume":
			err = setQuantity(&candle.Volume, field, value)
		default:
			err = errors.NewParseError("candle_field", field, "unmapped candle field")
		}
		if err != nil {
			return models.Candle{}, errors.NewDataError("candle", scrip.Key(), "malformed candle hash", err)
		}
	}
	return candle, nil
}

// LatestCandle loads the most recent cached candle for a scrip.
func (r *RedisTickers) LatestCandle(ctx context.Context, scrip models.Scrip) (models.Candle, error) {
	timestamps, err := r.CandleTimestamps(ctx, scrip)
	if err != nil {
		return models.Candle{}, err
	}
	if len(timestamps) == 0 {
		return models.Candle{}, errors.NewDataError("candle", scrip.Key(), "no cached candles", errors.ErrDataNotFound)
	}
	return r.CandleAt(ctx, scrip, timestamps[len(timestamps)-1])
}
