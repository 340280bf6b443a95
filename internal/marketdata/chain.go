package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"scrip-engine/internal/errors"
	"scrip-engine/internal/models"
)

// OptionChain holds the call and put scrips of one underlying and expiry,
// keyed by strike. Strikes are discovered from the keys present in the
// ticker store.
type OptionChain struct {
	Name       string
	Exchange   models.Exchange
	Expiry     time.Time
	Underlying *models.Scrip

	Calls map[int64]models.Scrip
	Puts  map[int64]models.Scrip
}

// BuildOptionChain scans the ticker store for the option contracts of an
// underlying at one expiry and assembles the chain.
func (r *RedisTickers) BuildOptionChain(ctx context.Context, name string, exchange models.Exchange, expiry time.Time, underlying *models.Scrip) (*OptionChain, error) {
	chain := &OptionChain{
		Name:       name,
		Exchange:   exchange,
		Expiry:     expiry,
		Underlying: underlying,
		Calls:      make(map[int64]models.Scrip),
		Puts:       make(map[int64]models.Scrip),
	}
	if err := r.RefreshChain(ctx, chain); err != nil {
		return nil, err
	}
	return chain, nil
}

// RefreshChain rescans the store and adds contracts for any strikes that
// appeared since the chain was built. Existing entries are kept.
func (r *RedisTickers) RefreshChain(ctx context.Context, chain *OptionChain) error {
	pattern := fmt.Sprintf("%s:%s:%s:%s:*",
		chain.Name, chain.Exchange, models.SegmentOptions, chain.Expiry.Format(models.ExpiryFormat))

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		scrip, err := models.ParseScripKey(iter.Val())
		if err != nil {
			return errors.Wrapf(err, "scanning option chain %s", pattern)
		}
		scrip.Underlying = chain.Underlying

		if _, ok := chain.Calls[scrip.Strike]; !ok {
			call := scrip
			call.OptionType = models.OptionCall
			chain.Calls[scrip.Strike] = call
		}
		if _, ok := chain.Puts[scrip.Strike]; !ok {
			put := scrip
			put.OptionType = models.OptionPut
			chain.Puts[scrip.Strike] = put
		}
	}
	if err := iter.Err(); err != nil {
		return errors.NewDataError("option_chain", pattern, "scanning chain keys", err)
	}
	return nil
}

// Strikes returns all strikes in the chain, sorted ascending.
func (c *OptionChain) Strikes() []int64 {
	strikes := make([]int64, 0, len(c.Calls))
	for strike := range c.Calls {
		strikes = append(strikes, strike)
	}
	sort.Slice(strikes, func(i, j int) bool { return strikes[i] < strikes[j] })
	return strikes
}

// AtStrike returns the call and put contracts at a strike.
func (c *OptionChain) AtStrike(strike int64) (call, put models.Scrip, err error) {
	call, okCall := c.Calls[strike]
	put, okPut := c.Puts[strike]
	if !okCall || !okPut {
		return models.Scrip{}, models.Scrip{},
			errors.NewDataError("option_chain", c.Name, fmt.Sprintf("strike %d not in chain", strike), errors.ErrDataNotFound)
	}
	return call, put, nil
}

// FilterStrikes drops every strike for which keep returns false.
func (c *OptionChain) FilterStrikes(keep func(strike int64) bool) *OptionChain {
	for _, strike := range c.Strikes() {
		if keep(strike) {
			continue
		}
		delete(c.Calls, strike)
		delete(c.Puts, strike)
	}
	return c
}
