package coupon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApply_ActiveCoupon(t *testing.T) {
	c := &Coupon{Code: "SAVE10", Discount: decimal.RequireFromString("0.1"), Active: true}

	got := c.Apply(decimal.RequireFromString("39.97"))
	assert.True(t, decimal.RequireFromString("35.973").Equal(got), "got %s", got)
}

func TestApply_InactiveCoupon(t *testing.T) {
	c := &Coupon{Code: "EXPIRED", Discount: decimal.RequireFromString("0.5"), Active: false}

	subtotal := decimal.RequireFromString("39.97")
	assert.True(t, subtotal.Equal(c.Apply(subtotal)))
}

func TestApply_FullDiscount(t *testing.T) {
	c := &Coupon{Code: "FREE", Discount: decimal.NewFromInt(1), Active: true}

	got := c.Apply(decimal.RequireFromString("19.99"))
	assert.True(t, decimal.Zero.Equal(got))
}

func TestApply_ZeroSubtotal(t *testing.T) {
	c := &Coupon{Code: "SAVE10", Discount: decimal.RequireFromString("0.1"), Active: true}

	assert.True(t, decimal.Zero.Equal(c.Apply(decimal.Zero)))
}
