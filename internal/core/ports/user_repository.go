package ports

import (
	"context"

	"github.com/fleetops/fleet-console/internal/core/domain"
)

// UserUpdate carries a full replace of the mutable user columns. An empty
// PasswordHash means "keep the stored hash"; the repository must apply the
// swap in the same statement as the other columns.
type UserUpdate struct {
	Name         string
	Email        string
	Role         domain.Role
	Status       domain.Status
	PasswordHash string
}

// UserRepository defines persistence operations for console accounts.
// Implementations classify store-constraint violations into domain errors
// (domain.ErrDuplicateEmail, domain.ErrReferentialConflict) and never leak
// driver errors upward unwrapped.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// List returns all users in insertion order, without password hashes.
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, update UserUpdate) error
	Delete(ctx context.Context, id int64) error
}
