package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/edgarkh/storefront/internal/domain/cart"
	"github.com/edgarkh/storefront/internal/domain/product"
)

// Status is an order's fulfillment state. New orders start as StatusPending;
// any status may overwrite any other (no transition validation).
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// Sentinel errors for order operations.
var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrEmptyCart is returned when order creation finds no cart or no
	// line items for the user.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidStatus is returned for status values outside the known
	// enumeration.
	ErrInvalidStatus = errors.New("invalid order status")
)

// InsufficientStockError indicates a line item's quantity exceeds the
// referenced product's current stock.
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %d", e.ProductID)
}

// ParseStatus validates a status string against the known enumeration.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", errors.Wrapf(ErrInvalidStatus, "%q", s)
	}
}

// Order is an immutable snapshot of purchased line items with a lifecycle
// status and a derived total.
type Order struct {
	ID        int64
	UserID    int64
	Status    Status
	CouponID  *int64
	Items     []Item
	Total     decimal.Decimal
	CreatedAt time.Time
}

// Item is a purchase-time (product, quantity) snapshot within an order.
type Item struct {
	ProductID int64
	Quantity  int32
	Product   product.Product
}

// Subtotal sums quantity times current product price over the given items.
func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, userID int64, items []Item) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	SetCoupon(ctx context.Context, orderID, couponID int64) error
}

// TxRepos bundles the repositories visible inside an order-creation
// transaction. All of them operate on the same underlying transaction handle.
type TxRepos struct {
	Carts    cart.Repository
	Products product.Repository
	Orders   Repository
}

// Transactor runs fn inside a single storage transaction. The transaction is
// committed when fn returns nil and rolled back otherwise, so every step of
// order creation succeeds or none do.
type Transactor interface {
	InTx(ctx context.Context, fn func(TxRepos) error) error
}
