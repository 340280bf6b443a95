package trading

import (
	"context"
	"math"
	"testing"
	"time"

	"scrip-engine/internal/errors"
	"scrip-engine/internal/models"
)

func tx(scrip models.Scrip, quantity int64, price float64, at time.Time) models.Transaction {
	return models.Transaction{Scrip: scrip, Quantity: quantity, AvgPrice: price, ExecutedAt: at}
}

func TestPositionWeightedAverage(t *testing.T) {
	scrip := testScrip()
	now := time.Now()

	p := NewPosition()
	if err := p.AddTransaction(tx(scrip, 5, 10, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := p.AddTransaction(tx(scrip, 15, 20, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	h, ok := p.Holding(scrip)
	if !ok {
		t.Fatal("holding missing")
	}
	if h.Quantity != 20 {
		t.Errorf("quantity = %d, want 20", h.Quantity)
	}
	// (5*10 + 15*20) / 20
	if h.AvgPrice != 17.5 {
		t.Errorf("avg price = %v, want 17.5", h.AvgPrice)
	}
	if len(p.History) != 2 {
		t.Errorf("history length = %d, want 2", len(p.History))
	}
}

func TestPositionSellReducesHolding(t *testing.T) {
	scrip := testScrip()
	now := time.Now()

	p := NewPosition()
	if err := p.AddTransaction(tx(scrip, 10, 100, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := p.AddTransaction(tx(scrip, -4, 110, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	h, _ := p.Holding(scrip)
	if h.Quantity != 6 {
		t.Errorf("quantity = %d, want 6", h.Quantity)
	}
	// (10*100 - 4*110) / 6
	want := (10*100.0 - 4*110.0) / 6.0
	if math.Abs(h.AvgPrice-want) > 1e-9 {
		t.Errorf("avg price = %v, want %v", h.AvgPrice, want)
	}
}

func TestPositionFlatHoldingRemoved(t *testing.T) {
	scrip := testScrip()
	now := time.Now()

	p := NewPosition()
	if err := p.AddTransaction(tx(scrip, 10, 100, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := p.AddTransaction(tx(scrip, -10, 105, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if _, ok := p.Holding(scrip); ok {
		t.Error("flat holding should be removed")
	}
	if len(p.History) != 2 {
		t.Errorf("history length = %d, want 2", len(p.History))
	}

	// Reopening starts a fresh holding at the new price.
	if err := p.AddTransaction(tx(scrip, 3, 250, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	h, ok := p.Holding(scrip)
	if !ok {
		t.Fatal("reopened holding missing")
	}
	if h.Quantity != 3 || h.AvgPrice != 250 {
		t.Errorf("holding = (%d, %v), want (3, 250)", h.Quantity, h.AvgPrice)
	}
}

func TestPositionRejectsBadTransactions(t *testing.T) {
	scrip := testScrip()
	now := time.Now()

	p := NewPosition()
	if err := p.AddTransaction(tx(scrip, 0, 100, now)); !errors.Is(err, errors.ErrInvalidOrder) {
		t.Errorf("zero quantity: err = %v, want ErrInvalidOrder", err)
	}
	if err := p.AddTransaction(tx(scrip, 5, math.NaN(), now)); !errors.Is(err, errors.ErrNonFinitePrice) {
		t.Errorf("NaN price: err = %v, want ErrNonFinitePrice", err)
	}
	if err := p.AddTransaction(tx(scrip, 5, math.Inf(1), now)); !errors.Is(err, errors.ErrNonFinitePrice) {
		t.Errorf("Inf price: err = %v, want ErrNonFinitePrice", err)
	}
	if len(p.History) != 0 {
		t.Errorf("rejected transactions must not enter history, got %d", len(p.History))
	}
}

func TestPositionAvgPriceOf(t *testing.T) {
	scrip := testScrip()
	p := NewPosition()

	if _, err := p.AvgPriceOf(scrip); !errors.Is(err, errors.ErrFlatHolding) {
		t.Errorf("flat scrip: err = %v, want ErrFlatHolding", err)
	}

	if err := p.AddTransaction(tx(scrip, 4, 125.5, time.Now())); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	avg, err := p.AvgPriceOf(scrip)
	if err != nil {
		t.Fatalf("AvgPriceOf: %v", err)
	}
	if avg != 125.5 {
		t.Errorf("avg = %v, want 125.5", avg)
	}
}

func TestPositionExtend(t *testing.T) {
	reliance := models.NewStockScrip("RELIANCE", models.NSE)
	sbin := models.NewStockScrip("SBIN", models.NSE)
	now := time.Now()

	p := NewPosition()
	if err := p.AddTransaction(tx(reliance, 10, 2500, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	other := NewPosition()
	if err := other.AddTransaction(tx(reliance, 10, 2600, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := other.AddTransaction(tx(sbin, 5, 600, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if err := p.Extend(other); err != nil {
		t.Fatalf("Extend: %v", err)
	}

	h, _ := p.Holding(reliance)
	if h.Quantity != 20 || h.AvgPrice != 2550 {
		t.Errorf("merged holding = (%d, %v), want (20, 2550)", h.Quantity, h.AvgPrice)
	}
	if h, _ := p.Holding(sbin); h.Quantity != 5 || h.AvgPrice != 600 {
		t.Errorf("merged holding = (%d, %v), want (5, 600)", h.Quantity, h.AvgPrice)
	}
	if len(p.History) != 3 {
		t.Errorf("history length = %d, want 3", len(p.History))
	}
}

func TestPositionExtendFailureLeavesPositionUnchanged(t *testing.T) {
	reliance := models.NewStockScrip("RELIANCE", models.NSE)
	sbin := models.NewStockScrip("SBIN", models.NSE)
	now := time.Now()

	p := NewPosition()
	if err := p.AddTransaction(tx(sbin, 1, math.MaxFloat64, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	// The sbin delta overflows the weighted average to +Inf during the
	// merge; the reliance delta is fine on its own.
	other := NewPosition()
	if err := other.AddTransaction(tx(reliance, 5, 100, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := other.AddTransaction(tx(sbin, 2, math.MaxFloat64, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if err := p.Extend(other); !errors.Is(err, errors.ErrNonFinitePrice) {
		t.Fatalf("Extend err = %v, want ErrNonFinitePrice", err)
	}

	if _, ok := p.Holding(reliance); ok {
		t.Error("failed merge must not leave other deltas applied")
	}
	h, ok := p.Holding(sbin)
	if !ok || h.Quantity != 1 || h.AvgPrice != math.MaxFloat64 {
		t.Errorf("holding = (%d, %v), want original (1, MaxFloat64)", h.Quantity, h.AvgPrice)
	}
	if len(p.History) != 1 {
		t.Errorf("history length = %d, want 1", len(p.History))
	}
}

func TestPositionSortHistory(t *testing.T) {
	scrip := testScrip()
	base := time.Now()

	p := NewPosition()
	for _, offset := range []time.Duration{3 * time.Minute, time.Minute, 2 * time.Minute} {
		if err := p.AddTransaction(tx(scrip, 1, 100, base.Add(offset))); err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}

	before, _ := p.Holding(scrip)
	p.SortHistory()
	after, _ := p.Holding(scrip)

	for i := 1; i < len(p.History); i++ {
		if p.History[i].ExecutedAt.Before(p.History[i-1].ExecutedAt) {
			t.Fatal("history not sorted by execution time")
		}
	}
	if before != after {
		t.Error("SortHistory must not change holdings")
	}
}

func TestPositionPnL(t *testing.T) {
	reliance := models.NewStockScrip("RELIANCE", models.NSE)
	sbin := models.NewStockScrip("SBIN", models.NSE)
	now := time.Now()

	p := NewPosition()
	if err := p.AddTransaction(tx(reliance, 10, 2500, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := p.AddTransaction(tx(sbin, -20, 600, now)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	prices := stubPriceProvider{
		reliance.Key(): 2550, // +50 x 10
		sbin.Key():     590,  // -10 x -20
	}
	pnl, err := p.PnL(context.Background(), prices)
	if err != nil {
		t.Fatalf("PnL: %v", err)
	}
	if pnl != 700 {
		t.Errorf("pnl = %v, want 700", pnl)
	}
}

func TestPositionPnLPropagatesLookupFailure(t *testing.T) {
	p := NewPosition()
	if err := p.AddTransaction(tx(testScrip(), 1, 100, time.Now())); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	_, err := p.PnL(context.Background(), stubPriceProvider{})
	if !errors.Is(err, errors.ErrDataNotFound) {
		t.Fatalf("err = %v, want ErrDataNotFound", err)
	}
}
