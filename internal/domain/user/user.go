package user

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("user not found")

// User represents a registered customer. Credentials are write-only seed data
// and never leave the storage layer.
type User struct {
	ID      int64
	Name    string
	Email   string
	Address string
}

// Repository defines read operations for users.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
}
