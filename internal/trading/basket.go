package trading

import (
	"context"

	"scrip-engine/internal/models"
)

// BasketPolicy represents the aggregation policy of a basket order.
type BasketPolicy string

// PolicyAllOrNone is currently the only basket policy.
const PolicyAllOrNone BasketPolicy = "ALL_OR_NONE"

// BasketOrder is an ordered collection of orders executed together. It is
// built incrementally with Add and Extend, then executed as one unit.
type BasketOrder struct {
	Policy BasketPolicy
	Orders []models.Order
}

// NewBasketOrder creates an empty all-or-none basket.
func NewBasketOrder() *BasketOrder {
	return &BasketOrder{Policy: PolicyAllOrNone}
}

// Add appends an order to the basket.
func (b *BasketOrder) Add(order models.Order) {
	b.Orders = append(b.Orders, order)
}

// Extend appends all of another basket's orders. A non-empty policy
// replaces this basket's policy.
func (b *BasketOrder) Extend(other BasketOrder, policy BasketPolicy) {
	b.Orders = append(b.Orders, other.Orders...)
	if policy != "" {
		b.Policy = policy
	}
}

// Execute runs every order in sequence and folds the resulting
// transactions into a freshly created position.
//
// Execution stops at the first failing order and that error is returned;
// orders executed before the failure are not rolled back, their
// transactions are discarded together with the partial position. The
// AllOrNone policy therefore names intent only: callers whose orders have
// effects outside this in-memory model get no atomicity guarantee and
// must compensate failures themselves.
func (b *BasketOrder) Execute(ctx context.Context, exec *Executor) (*Position, error) {
	position := NewPosition()
	for _, order := range b.Orders {
		tx, err := exec.Execute(ctx, order)
		if err != nil {
			return nil, err
		}
		if err := position.AddTransaction(tx); err != nil {
			return nil, err
		}
	}
	return position, nil
}

// Margin sums the required margin across all orders. A failure computing
// any single order's margin fails the whole sum.
func (b *BasketOrder) Margin(ctx context.Context, exec *Executor) (float64, error) {
	var total float64
	for _, order := range b.Orders {
		m, err := exec.Margin(ctx, order)
		if err != nil {
			return 0, err
		}
		total += m
	}
	return total, nil
}
