package coupon

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested coupon does not exist.
var ErrNotFound = errors.New("coupon not found")

// Coupon is a named discount fraction that can be attached to an order.
// Discount is a fraction in [0, 1]; 0.1 means 10% off.
type Coupon struct {
	ID       int64
	Code     string
	Discount decimal.Decimal
	Active   bool
}

// Apply reduces the given subtotal by the coupon's discount fraction.
// Inactive coupons leave the subtotal unchanged.
func (c *Coupon) Apply(subtotal decimal.Decimal) decimal.Decimal {
	if !c.Active {
		return subtotal
	}
	return subtotal.Mul(decimal.NewFromInt(1).Sub(c.Discount))
}

// Repository defines read operations for coupons.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Coupon, error)
}
