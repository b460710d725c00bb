package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/edgarkh/storefront/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (user_id, status)
		VALUES ($1, $2) RETURNING id, created_at`

	createOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity)
		VALUES ($1, $2, $3)`

	getOrderByIDSQL = `SELECT id, user_id, status, coupon_id, created_at
		FROM orders WHERE id = $1`

	listOrdersByUserSQL = `SELECT id, user_id, status, coupon_id, created_at
		FROM orders WHERE user_id = $1 ORDER BY id`

	getOrderItemsSQL = `SELECT oi.order_id, oi.product_id, oi.quantity,
			p.id, p.name, p.description, p.price, p.stock
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.product_id`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
	setOrderCouponSQL    = `UPDATE orders SET coupon_id = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	db querier
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: pool}
}

// Create persists a new PENDING order with a snapshot of the given line items.
func (r *OrderRepository) Create(ctx context.Context, userID int64, items []order.Item) (*order.Order, error) {
	o := &order.Order{
		UserID: userID,
		Status: order.StatusPending,
		Items:  items,
	}
	err := r.db.QueryRow(ctx, createOrderSQL, userID, order.StatusPending).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating order for user %d: %w", userID, err)
	}

	for _, it := range items {
		if _, err := r.db.Exec(ctx, createOrderItemSQL, o.ID, it.ProductID, it.Quantity); err != nil {
			return nil, fmt.Errorf("creating item %d of order %d: %w", it.ProductID, o.ID, err)
		}
	}

	return o, nil
}

// GetByID returns an order with its line items and referenced products.
// Returns order.ErrNotFound when no matching order exists.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.db.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	items, err := r.loadItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return &o, nil
}

// ListByUser returns all of a user's orders with line items and products,
// ordered by ID.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

// UpdateStatus sets the order's status.
// Returns order.ErrNotFound when no matching order exists.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	tag, err := r.db.Exec(ctx, updateOrderStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("updating status of order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// SetCoupon attaches a coupon to the order.
// Returns order.ErrNotFound when no matching order exists.
func (r *OrderRepository) SetCoupon(ctx context.Context, orderID, couponID int64) error {
	tag, err := r.db.Exec(ctx, setOrderCouponSQL, orderID, couponID)
	if err != nil {
		return fmt.Errorf("applying coupon %d to order %d: %w", couponID, orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// loadItems batch-loads the line items for the given order IDs, keyed by
// order ID.
func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]order.Item, error) {
	rows, err := r.db.Query(ctx, getOrderItemsSQL, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("getting order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]order.Item, len(orderIDs))
	for rows.Next() {
		var (
			orderID int64
			it      order.Item
			price   decimal.Decimal
		)
		err := rows.Scan(
			&orderID, &it.ProductID, &it.Quantity,
			&it.Product.ID, &it.Product.Name, &it.Product.Description, &price, &it.Product.Stock,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		it.Product.Price = price
		items[orderID] = append(items[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("getting order items: %w", err)
	}

	return items, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.CouponID, &o.CreatedAt)
	return o, err
}
