package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a stock decrement would leave
	// the stock count negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product represents a catalog item available for purchase.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
}

// Repository defines operations on the product catalog. DecrementStock must
// refuse to drive the stock count below zero.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	DecrementStock(ctx context.Context, id int64, qty int32) error
}
