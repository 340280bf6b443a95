package models

import (
	"time"

	"scrip-engine/internal/errors"
)

// OrderKind represents the kind of an order.
type OrderKind string

const (
	OrderKindMarket OrderKind = "MARKET"
	OrderKindLimit  OrderKind = "LIMIT"
)

// Order is a desired signed quantity of a scrip. A positive quantity buys,
// a negative quantity sells; zero is invalid. Price is only meaningful for
// limit orders.
type Order struct {
	Scrip    Scrip
	Quantity int64
	Kind     OrderKind
	Price    float64
}

// NewMarketOrder creates a market order for a signed quantity.
func NewMarketOrder(scrip Scrip, quantity int64) Order {
	return Order{Scrip: scrip, Quantity: quantity, Kind: OrderKindMarket}
}

// NewLimitOrder creates a limit order at a fixed price.
func NewLimitOrder(scrip Scrip, quantity int64, price float64) Order {
	return Order{Scrip: scrip, Quantity: quantity, Kind: OrderKindLimit, Price: price}
}

// IsBuy reports whether the order buys.
func (o Order) IsBuy() bool {
	return o.Quantity > 0
}

// AbsQuantity returns the unsigned order quantity.
func (o Order) AbsQuantity() int64 {
	if o.Quantity < 0 {
		return -o.Quantity
	}
	return o.Quantity
}

// Validate checks the structural invariants of the order.
func (o Order) Validate() error {
	if o.Quantity == 0 {
		return errors.ErrInvalidOrder
	}
	if o.Kind != OrderKindMarket && o.Kind != OrderKindLimit {
		return errors.ErrInvalidOrder
	}
	if o.Kind == OrderKindLimit && o.Price <= 0 {
		return errors.ErrInvalidOrder
	}
	return nil
}

// Transaction is the result of a successfully executed order. It is
// created only by the execution engine and never modified afterwards.
type Transaction struct {
	Scrip      Scrip
	Quantity   int64
	AvgPrice   float64
	ExecutedAt time.Time
}
