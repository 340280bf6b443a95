package models

import (
	"testing"

	"scrip-engine/internal/errors"
)

func TestOrderValidate(t *testing.T) {
	scrip := NewStockScrip("SBIN", NSE)

	tests := []struct {
		name    string
		order   Order
		wantErr bool
	}{
		{"market buy", NewMarketOrder(scrip, 10), false},
		{"market sell", NewMarketOrder(scrip, -10), false},
		{"limit buy", NewLimitOrder(scrip, 10, 600), false},
		{"zero quantity", NewMarketOrder(scrip, 0), true},
		{"limit without price", NewLimitOrder(scrip, 10, 0), true},
		{"limit negative price", NewLimitOrder(scrip, 10, -5), true},
		{"unknown kind", Order{Scrip: scrip, Quantity: 1, Kind: "STOP"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if tt.wantErr && !errors.Is(err, errors.ErrInvalidOrder) {
				t.Errorf("err = %v, want ErrInvalidOrder", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOrderSideAndAbsQuantity(t *testing.T) {
	scrip := NewStockScrip("SBIN", NSE)

	buy := NewMarketOrder(scrip, 10)
	if !buy.IsBuy() || buy.AbsQuantity() != 10 {
		t.Errorf("buy order: IsBuy=%v abs=%d", buy.IsBuy(), buy.AbsQuantity())
	}

	sell := NewMarketOrder(scrip, -10)
	if sell.IsBuy() || sell.AbsQuantity() != 10 {
		t.Errorf("sell order: IsBuy=%v abs=%d", sell.IsBuy(), sell.AbsQuantity())
	}
}

func TestDepthSideSelection(t *testing.T) {
	depth := Depth{
		Bid: []DepthLevel{{Price: 99, Quantity: 5}},
		Ask: []DepthLevel{{Price: 101, Quantity: 7}},
	}

	if levels := depth.Side(true); len(levels) != 1 || levels[0].Price != 101 {
		t.Error("buy must select the ask side")
	}
	if levels := depth.Side(false); len(levels) != 1 || levels[0].Price != 99 {
		t.Error("sell must select the bid side")
	}
	if qty := depth.AvailableQuantity(true); qty != 7 {
		t.Errorf("ask aggregate = %d, want 7", qty)
	}
	if qty := depth.AvailableQuantity(false); qty != 5 {
		t.Errorf("bid aggregate = %d, want 5", qty)
	}
}
