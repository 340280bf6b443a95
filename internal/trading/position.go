package trading

import (
	"context"
	"math"
	"sort"

	"scrip-engine/internal/errors"
	"scrip-engine/internal/marketdata"
	"scrip-engine/internal/models"
)

// Holding is the net signed quantity and volume-weighted average price of
// one scrip within a position.
type Holding struct {
	Scrip    models.Scrip
	Quantity int64
	AvgPrice float64
}

// Position is a running ledger of executed transactions and the holdings
// derived from them. History keeps insertion order; it is only
// time-sorted when SortHistory is called.
//
// A Position is exclusively owned by its caller and is not safe for
// concurrent mutation. Callers submitting concurrent orders must
// serialize their AddTransaction calls externally.
type Position struct {
	History  []models.Transaction
	Holdings map[string]Holding
}

// NewPosition creates an empty position.
func NewPosition() *Position {
	return &Position{Holdings: make(map[string]Holding)}
}

// AddTransaction appends the transaction to the history and folds it into
// the holdings map.
//
// For a scrip with a prior holding (q0, p0) the new holding is
// (q0+q, (p0*q0 + p*q)/(q0+q)). A transaction that brings the net
// quantity to exactly zero closes the holding and removes the entry, so
// the undefined division never happens; a later transaction on the same
// scrip starts a fresh holding at its own price.
func (p *Position) AddTransaction(tx models.Transaction) error {
	if tx.Quantity == 0 {
		return errors.ErrInvalidOrder
	}
	if math.IsNaN(tx.AvgPrice) || math.IsInf(tx.AvgPrice, 0) {
		return errors.ErrNonFinitePrice
	}

	if err := p.updateHolding(tx.Scrip, tx.Quantity, tx.AvgPrice); err != nil {
		return err
	}
	p.History = append(p.History, tx)
	return nil
}

func (p *Position) updateHolding(scrip models.Scrip, quantity int64, price float64) error {
	if p.Holdings == nil {
		p.Holdings = make(map[string]Holding)
	}

	key := scrip.Key()
	prior, ok := p.Holdings[key]
	if !ok {
		p.Holdings[key] = Holding{Scrip: scrip, Quantity: quantity, AvgPrice: price}
		return nil
	}

	newQty := prior.Quantity + quantity
	if newQty == 0 {
		delete(p.Holdings, key)
		return nil
	}

	avg := (prior.AvgPrice*float64(prior.Quantity) + price*float64(quantity)) / float64(newQty)
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return errors.ErrNonFinitePrice
	}
	p.Holdings[key] = Holding{Scrip: scrip, Quantity: newQty, AvgPrice: avg}
	return nil
}

// Extend merges another position into this one: the full history is
// appended and each of the other position's holdings is re-applied as a
// delta through the same weighted-average fold. The deltas are staged on
// a copy of the holdings, so a failed merge leaves this position
// unchanged.
func (p *Position) Extend(other *Position) error {
	if other == nil {
		return nil
	}

	staged := &Position{Holdings: make(map[string]Holding, len(p.Holdings))}
	for key, h := range p.Holdings {
		staged.Holdings[key] = h
	}
	for _, h := range other.Holdings {
		if err := staged.updateHolding(h.Scrip, h.Quantity, h.AvgPrice); err != nil {
			return err
		}
	}

	p.Holdings = staged.Holdings
	p.History = append(p.History, other.History...)
	return nil
}

// SortHistory reorders the history by execution timestamp. Holdings are
// untouched; the weighted-average fold over a fixed set of transactions
// does not depend on their order.
func (p *Position) SortHistory() {
	sort.SliceStable(p.History, func(i, j int) bool {
		return p.History[i].ExecutedAt.Before(p.History[j].ExecutedAt)
	})
}

// Holding returns the holding for a scrip, if any.
func (p *Position) Holding(scrip models.Scrip) (Holding, bool) {
	h, ok := p.Holdings[scrip.Key()]
	return h, ok
}

// AvgPriceOf returns the weighted average price of the holding in a
// scrip. A flat scrip has no average price; ErrFlatHolding is returned
// instead of a misleading zero.
func (p *Position) AvgPriceOf(scrip models.Scrip) (float64, error) {
	h, ok := p.Holdings[scrip.Key()]
	if !ok {
		return 0, errors.Wrapf(errors.ErrFlatHolding, "no holding in %s", scrip.Key())
	}
	return h.AvgPrice, nil
}

// PnL computes the unrealized profit and loss of the position: the sum of
// quantity * (last price - average price) across all holdings. Every
// holding costs one fresh price lookup; nothing is cached or batched at
// this layer.
func (p *Position) PnL(ctx context.Context, prices marketdata.PriceProvider) (float64, error) {
	var total float64
	for _, h := range p.Holdings {
		ltp, err := prices.LastPrice(ctx, h.Scrip)
		if err != nil {
			return 0, errors.Wrapf(err, "fetching last price for %s", h.Scrip.Key())
		}
		total += float64(h.Quantity) * (ltp - h.AvgPrice)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, errors.ErrNonFinitePrice
	}
	return total, nil
}
