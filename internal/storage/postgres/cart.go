package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/edgarkh/storefront/internal/domain/cart"
)

const (
	getCartByUserSQL = `SELECT id, user_id FROM carts WHERE user_id = $1`

	getCartItemsSQL = `SELECT ci.product_id, ci.quantity,
			p.id, p.name, p.description, p.price, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.product_id`

	// The no-op update makes RETURNING yield a row on conflict too.
	ensureCartSQL = `INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id`

	addCartItemSQL = `INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	setCartItemQuantitySQL = `UPDATE cart_items SET quantity = $3
		WHERE cart_id = $1 AND product_id = $2`

	removeCartItemSQL = `DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2`

	deleteCartItemsSQL = `DELETE FROM cart_items WHERE cart_id = $1`
	deleteCartSQL      = `DELETE FROM carts WHERE id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	db querier
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: pool}
}

// GetByUser loads the user's cart with its line items and referenced
// products. Returns cart.ErrNotFound when the user has no cart.
func (r *CartRepository) GetByUser(ctx context.Context, userID int64) (*cart.Cart, error) {
	var c cart.Cart
	err := r.db.QueryRow(ctx, getCartByUserSQL, userID).Scan(&c.ID, &c.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, fmt.Errorf("getting cart for user %d: %w", userID, err)
	}

	rows, err := r.db.Query(ctx, getCartItemsSQL, c.ID)
	if err != nil {
		return nil, fmt.Errorf("getting items for cart %d: %w", c.ID, err)
	}
	c.Items, err = pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("getting items for cart %d: %w", c.ID, err)
	}

	return &c, nil
}

// Ensure creates the user's cart when absent and returns its ID either way.
func (r *CartRepository) Ensure(ctx context.Context, userID int64) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, ensureCartSQL, userID).Scan(&id); err != nil {
		return 0, fmt.Errorf("ensuring cart for user %d: %w", userID, err)
	}
	return id, nil
}

// AddItem inserts a line item, accumulating quantity when the
// (cart, product) pair already exists.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID int64, qty int32) error {
	_, err := r.db.Exec(ctx, addCartItemSQL, cartID, productID, qty)
	if err != nil {
		return fmt.Errorf("adding product %d to cart %d: %w", productID, cartID, err)
	}
	return nil
}

// SetItemQuantity overwrites an existing line item's quantity.
// Returns cart.ErrItemNotFound when the pairing does not exist.
func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID, productID int64, qty int32) error {
	tag, err := r.db.Exec(ctx, setCartItemQuantitySQL, cartID, productID, qty)
	if err != nil {
		return fmt.Errorf("updating product %d in cart %d: %w", productID, cartID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// RemoveItem deletes a line item.
// Returns cart.ErrItemNotFound when the pairing does not exist.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, productID int64) error {
	tag, err := r.db.Exec(ctx, removeCartItemSQL, cartID, productID)
	if err != nil {
		return fmt.Errorf("removing product %d from cart %d: %w", productID, cartID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// Delete removes the cart and all of its line items.
// Returns cart.ErrNotFound when the cart row no longer exists. Inside a
// checkout transaction that means a concurrent checkout already consumed the
// cart: the delete blocks on the winner's row lock, sees 0 rows after it
// commits, and the loser must abort instead of selling the items again.
func (r *CartRepository) Delete(ctx context.Context, cartID int64) error {
	if _, err := r.db.Exec(ctx, deleteCartItemsSQL, cartID); err != nil {
		return fmt.Errorf("deleting items of cart %d: %w", cartID, err)
	}
	tag, err := r.db.Exec(ctx, deleteCartSQL, cartID)
	if err != nil {
		return fmt.Errorf("deleting cart %d: %w", cartID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var (
		it    cart.Item
		price decimal.Decimal
	)
	err := row.Scan(
		&it.ProductID, &it.Quantity,
		&it.Product.ID, &it.Product.Name, &it.Product.Description, &price, &it.Product.Stock,
	)
	it.Product.Price = price
	return it, err
}
