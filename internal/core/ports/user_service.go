package ports

import (
	"context"

	"github.com/fleetops/fleet-console/internal/core/domain"
)

// CreateUserInput carries all data needed to create a console account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Status   string
}

// UpdateUserInput is a full replace of name/email/role/status. Password is
// the only optional field: blank leaves the stored hash untouched.
type UpdateUserInput struct {
	Name     string
	Email    string
	Role     string
	Status   string
	Password string
}

// UserService defines the user-directory use cases.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) error
	Delete(ctx context.Context, id int64) error
}
