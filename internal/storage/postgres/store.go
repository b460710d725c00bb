package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgarkh/storefront/internal/domain/order"
)

var _ order.Transactor = (*Store)(nil)

// Store implements order.Transactor over a pgx transaction.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store that opens transactions on the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InTx runs fn with repositories bound to one transaction. The transaction is
// committed when fn returns nil and rolled back on error or panic.
func (s *Store) InTx(ctx context.Context, fn func(order.TxRepos) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := order.TxRepos{
		Carts:    &CartRepository{db: tx},
		Products: &ProductRepository{db: tx},
		Orders:   &OrderRepository{db: tx},
	}

	if err := fn(repos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}
