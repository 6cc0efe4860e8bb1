package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rs/zerolog"

	"github.com/fleetops/fleet-console/internal/core/domain"
	"github.com/fleetops/fleet-console/internal/core/ports"
)

// UserService implements the user-directory use cases: list, create, update,
// delete. Constraint enforcement (unique email, referential integrity) is
// delegated to the store; the repository translates violations into domain
// errors before they reach this layer's callers.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// List returns every user in insertion order. An empty directory yields an
// empty slice, not an error.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	// Rows written before the current role set may carry retired values;
	// they render as "unknown" rather than leaking raw storage strings.
	for i := range users {
		users[i].Role = users[i].Role.Display()
	}
	return users, nil
}

// Create hashes the password and inserts a new user, returning the stored
// record (server-assigned id and creation time) without the hash.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	status := domain.Status(input.Status)
	if input.Status == "" {
		status = domain.StatusActive
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.Role(input.Role),
		Status:       status,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")

	created.PasswordHash = ""
	return created, nil
}

// Update replaces name/email/role/status wholesale. The password is optional:
// a non-blank value is hashed and swapped in the same statement as the other
// columns, a blank one leaves the stored hash untouched.
func (s *UserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) error {
	if err := validateUpdate(input); err != nil {
		return err
	}

	update := ports.UserUpdate{
		Name:   input.Name,
		Email:  input.Email,
		Role:   domain.Role(input.Role),
		Status: domain.Status(input.Status),
	}

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		update.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Bool("password_changed", update.PasswordHash != "").Msg("user updated")
	return nil
}

// Delete performs an irreversible hard delete. A second delete of the same id
// reports domain.ErrUserNotFound; rows referenced elsewhere stay untouched and
// surface domain.ErrReferentialConflict.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func validateCreate(input ports.CreateUserInput) error {
	switch {
	case input.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case input.Email == "":
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	case input.Password == "":
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	case input.Role == "":
		return fmt.Errorf("%w: role is required", domain.ErrValidation)
	}
	if !domain.Role(input.Role).Known() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}
	if input.Status != "" && !domain.Status(input.Status).Known() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, input.Status)
	}
	return nil
}

func validateUpdate(input ports.UpdateUserInput) error {
	switch {
	case input.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case input.Email == "":
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if !domain.Role(input.Role).Known() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}
	if !domain.Status(input.Status).Known() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, input.Status)
	}
	return nil
}
