package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
)

// UserStore persists accounts. Implementations hash User.Password on
// Create and Update and never return a plaintext password.
type UserStore interface {
	// Create validates and inserts user. Returns ErrEmailExists when the
	// email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound when no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns ErrUserNotFound when no such user exists.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update writes every mutable field, so the caller passes a complete
	// user including HashedPassword. A non-empty Password is re-hashed.
	Update(ctx context.Context, user *domain.User) error

	// ListIDs returns every user ID, oldest account first. The nightly
	// sweep walks this list.
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	// Delete removes the user; tasks and capacity settings cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a store bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
