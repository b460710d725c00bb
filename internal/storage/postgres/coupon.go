package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/edgarkh/storefront/internal/domain/coupon"
)

const (
	getCouponByIDSQL = `SELECT id, code, discount, active FROM coupons WHERE id = $1`

	upsertCouponSQL = `INSERT INTO coupons (code, discount, active)
		VALUES (UPPER($1), $2, $3)
		ON CONFLICT (code) DO UPDATE SET
			discount = EXCLUDED.discount,
			active = EXCLUDED.active`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	db querier
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{db: pool}
}

// GetByID returns a single coupon by its identifier.
// Returns coupon.ErrNotFound when no matching coupon exists.
func (r *CouponRepository) GetByID(ctx context.Context, id int64) (*coupon.Coupon, error) {
	var (
		c        coupon.Coupon
		discount decimal.Decimal
	)
	err := r.db.QueryRow(ctx, getCouponByIDSQL, id).Scan(&c.ID, &c.Code, &discount, &c.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("getting coupon %d: %w", id, err)
	}
	c.Discount = discount
	return &c, nil
}

// Upsert inserts or updates a coupon keyed by its (upper-cased) code.
// Used by the seed and ingest commands.
func (r *CouponRepository) Upsert(ctx context.Context, code string, discount decimal.Decimal, active bool) error {
	_, err := r.db.Exec(ctx, upsertCouponSQL, code, discount, active)
	if err != nil {
		return fmt.Errorf("upserting coupon %q: %w", code, err)
	}
	return nil
}
