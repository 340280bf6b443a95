package models

import "time"

// DepthLevel is one price level within a depth snapshot.
type DepthLevel struct {
	Price    float64
	Quantity int64
}

// Depth is an immutable snapshot of the outstanding bid and ask levels for
// a scrip. Levels are ordered by execution priority: best bid first on the
// bid side, best ask first on the ask side. A Depth is never mutated after
// it is fetched; callers needing fresher state must fetch a new snapshot.
type Depth struct {
	Levels   int
	TotalBid int64
	TotalAsk int64
	Bid      []DepthLevel
	Ask      []DepthLevel
}

// Side returns the bid levels for sells and the ask levels for buys.
func (d Depth) Side(buy bool) []DepthLevel {
	if buy {
		return d.Ask
	}
	return d.Bid
}

// AvailableQuantity sums the quantity across all levels of one side.
func (d Depth) AvailableQuantity(buy bool) int64 {
	var total int64
	for _, level := range d.Side(buy) {
		total += level.Quantity
	}
	return total
}

// OHLC holds open/high/low/close prices and traded volume.
type OHLC struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Ticker is the full live market snapshot for a scrip: last traded price,
// day OHLC and the current depth.
type Ticker struct {
	LTP   float64
	OHLC  OHLC
	Depth Depth
}

// Candle represents OHLCV data for one time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}
