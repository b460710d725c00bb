package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/edgarkh/storefront/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, name, description, price, stock
		FROM products ORDER BY id`

	getProductByIDSQL = `SELECT id, name, description, price, stock
		FROM products WHERE id = $1`

	// The stock guard makes oversell impossible even under concurrent
	// checkouts: the row lock taken by UPDATE serializes decrements, and a
	// decrement that would go negative matches no row.
	decrementStockSQL = `UPDATE products SET stock = stock - $2
		WHERE id = $1 AND stock >= $2`

	upsertProductSQL = `INSERT INTO products (name, description, price, stock)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	db querier
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: pool}
}

// List returns all products from the catalog ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.db.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
// Returns product.ErrNotFound when no matching product exists.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.db.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// DecrementStock subtracts qty from the product's stock count.
// Returns product.ErrInsufficientStock when the decrement would leave the
// stock negative (or the product does not exist).
func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, qty int32) error {
	tag, err := r.db.Exec(ctx, decrementStockSQL, id, qty)
	if err != nil {
		return fmt.Errorf("decrementing stock for product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrInsufficientStock
	}
	return nil
}

// Upsert inserts or updates a product keyed by name. Used by the seed command.
func (r *ProductRepository) Upsert(ctx context.Context, name, description string, price decimal.Decimal, stock int32) error {
	_, err := r.db.Exec(ctx, upsertProductSQL, name, description, price, stock)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", name, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		price decimal.Decimal
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Stock)
	p.Price = price
	return p, err
}
