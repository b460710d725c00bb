package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/edgarkh/storefront/internal/domain/product"
	"github.com/edgarkh/storefront/internal/domain/user"
)

// Service encapsulates cart mutation business rules.
type Service struct {
	users    user.Repository
	products product.Repository
	carts    Repository
}

// NewService creates a cart Service with the required domain dependencies.
func NewService(users user.Repository, products product.Repository, carts Repository) *Service {
	return &Service{
		users:    users,
		products: products,
		carts:    carts,
	}
}

// Get returns the user's cart with line items and referenced products.
// Returns ErrNotFound when the user has no cart.
func (s *Service) Get(ctx context.Context, userID int64) (*Cart, error) {
	return s.carts.GetByUser(ctx, userID)
}

// AddItem adds qty units of a product to the user's cart, creating the cart
// when absent. Adding a product already in the cart accumulates its quantity
// instead of creating a second line item.
func (s *Service) AddItem(ctx context.Context, userID, productID int64, qty int32) (*Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, errors.Wrap(err, "get product")
	}

	cartID, err := s.carts.Ensure(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "ensure cart")
	}

	if err := s.carts.AddItem(ctx, cartID, productID, qty); err != nil {
		return nil, errors.Wrap(err, "add cart item")
	}

	return s.carts.GetByUser(ctx, userID)
}

// UpdateItem sets the quantity of an existing line item. The (cart, product)
// pairing must already exist; use AddItem to create it.
func (s *Service) UpdateItem(ctx context.Context, userID, productID int64, qty int32) (*Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, errors.Wrap(err, "get cart")
	}

	if err := s.carts.SetItemQuantity(ctx, c.ID, productID, qty); err != nil {
		return nil, errors.Wrap(err, "set cart item quantity")
	}

	return s.carts.GetByUser(ctx, userID)
}

// RemoveItem deletes the (cart, product) line item. Removing a pairing that
// does not exist is an error, not a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, productID int64) error {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrItemNotFound
		}
		return errors.Wrap(err, "get cart")
	}

	if err := s.carts.RemoveItem(ctx, c.ID, productID); err != nil {
		return errors.Wrap(err, "remove cart item")
	}
	return nil
}
