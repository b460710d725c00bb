package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/edgarkh/storefront/internal/domain/product"
)

// Sentinel errors for cart operations.
var (
	// ErrNotFound is returned when the user has no cart.
	ErrNotFound = errors.New("cart not found")
	// ErrItemNotFound is returned when the cart has no line item for the
	// requested product.
	ErrItemNotFound = errors.New("cart item not found")
	// ErrInvalidQuantity is returned for quantities below 1.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Cart is a user's in-progress collection of selected products.
type Cart struct {
	ID     int64
	UserID int64
	Items  []Item
}

// Item is a (product, quantity) pairing within a cart.
type Item struct {
	ProductID int64
	Quantity  int32
	Product   product.Product
}

// Repository defines persistence operations for carts and their line items.
//
// GetByUser loads the cart with line items and referenced products. Ensure
// creates the user's cart when absent and returns its ID either way. AddItem
// accumulates quantity when the (cart, product) pair already exists. Delete
// returns ErrNotFound when the cart row is already gone, so a checkout
// transaction can detect that a concurrent checkout consumed the cart.
type Repository interface {
	GetByUser(ctx context.Context, userID int64) (*Cart, error)
	Ensure(ctx context.Context, userID int64) (int64, error)
	AddItem(ctx context.Context, cartID, productID int64, qty int32) error
	SetItemQuantity(ctx context.Context, cartID, productID int64, qty int32) error
	RemoveItem(ctx context.Context, cartID, productID int64) error
	Delete(ctx context.Context, cartID int64) error
}
