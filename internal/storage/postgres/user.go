package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgarkh/storefront/internal/domain/user"
)

const (
	getUserByIDSQL = `SELECT id, name, email, address FROM users WHERE id = $1`

	upsertUserSQL = `INSERT INTO users (name, email, password, address)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			password = EXCLUDED.password,
			address = EXCLUDED.address`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	db querier
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

// GetByID returns a single user by its identifier.
// Returns user.ErrNotFound when no matching user exists.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, getUserByIDSQL, id).Scan(&u.ID, &u.Name, &u.Email, &u.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &u, nil
}

// Upsert inserts or updates a user keyed by email. Used by the seed command.
func (r *UserRepository) Upsert(ctx context.Context, name, email, password, address string) error {
	_, err := r.db.Exec(ctx, upsertUserSQL, name, email, password, address)
	if err != nil {
		return fmt.Errorf("upserting user %q: %w", email, err)
	}
	return nil
}
