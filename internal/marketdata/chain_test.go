package marketdata

import (
	"testing"
	"time"

	"scrip-engine/internal/errors"
	"scrip-engine/internal/models"
)

func testChain() *OptionChain {
	expiry := time.Date(2026, time.September, 24, 0, 0, 0, 0, time.UTC)
	chain := &OptionChain{
		Name:     "NIFTY",
		Exchange: models.NSE,
		Expiry:   expiry,
		Calls:    make(map[int64]models.Scrip),
		Puts:     make(map[int64]models.Scrip),
	}
	for _, strike := range []int64{24200, 23800, 24000} {
		chain.Calls[strike] = models.NewOptionScrip("NIFTY", models.NSE, expiry, strike, models.OptionCall, nil)
		chain.Puts[strike] = models.NewOptionScrip("NIFTY", models.NSE, expiry, strike, models.OptionPut, nil)
	}
	return chain
}

func TestOptionChainStrikesSorted(t *testing.T) {
	strikes := testChain().Strikes()
	want := []int64{23800, 24000, 24200}
	if len(strikes) != len(want) {
		t.Fatalf("strikes = %v", strikes)
	}
	for i := range want {
		if strikes[i] != want[i] {
			t.Errorf("strikes[%d] = %d, want %d", i, strikes[i], want[i])
		}
	}
}

func TestOptionChainAtStrike(t *testing.T) {
	chain := testChain()

	call, put, err := chain.AtStrike(24000)
	if err != nil {
		t.Fatalf("AtStrike: %v", err)
	}
	if call.OptionType != models.OptionCall || put.OptionType != models.OptionPut {
		t.Errorf("contracts = (%s, %s)", call.OptionType, put.OptionType)
	}
	if call.Strike != 24000 || put.Strike != 24000 {
		t.Errorf("strikes = (%d, %d)", call.Strike, put.Strike)
	}

	if _, _, err := chain.AtStrike(99999); !errors.Is(err, errors.ErrDataNotFound) {
		t.Errorf("missing strike err = %v, want ErrDataNotFound", err)
	}
}

func TestOptionChainFilterStrikes(t *testing.T) {
	chain := testChain()
	chain.FilterStrikes(func(strike int64) bool { return strike >= 24000 })

	strikes := chain.Strikes()
	if len(strikes) != 2 || strikes[0] != 24000 || strikes[1] != 24200 {
		t.Errorf("filtered strikes = %v", strikes)
	}
	if _, ok := chain.Puts[23800]; ok {
		t.Error("filtered put not removed")
	}
}
