package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetops/fleet-console/internal/core/domain"
	"github.com/fleetops/fleet-console/internal/core/ports"
)

// SQLSTATE codes raised by the store's own constraint layer.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository provides Postgres-backed persistence for console accounts.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Migrate applies the users schema. Uniqueness lives in the table definition;
// the application never pre-checks emails.
func (r *UserRepository) Migrate(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'active',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("apply users migration: %w", err)
	}
	return nil
}

// Create inserts a new row, then re-reads it so the caller gets the
// server-assigned id and creation timestamp.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
	INSERT INTO users (name, email, password_hash, role, status)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id;`

	var id int64
	err := r.pool.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash, string(user.Role), string(user.Status)).Scan(&id)
	if err != nil {
		if constraintErr := classifyConstraint(err); constraintErr != nil {
			return nil, constraintErr
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return r.FindByID(ctx, id)
}

// FindByEmail fetches a full row, hash included, for credential checks.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
	SELECT id, name, email, password_hash, role, status, created_at
	FROM users WHERE email = $1;`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
	SELECT id, name, email, password_hash, role, status, created_at
	FROM users WHERE id = $1;`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// List returns all users in insertion order. The hash column is never
// selected here, so listings are sanitized at the query level.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
	SELECT id, name, email, role, status, created_at
	FROM users ORDER BY id;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var role, status string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &role, &status, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = domain.Role(role)
		u.Status = domain.Status(status)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update replaces name/email/role/status and, when a new hash is supplied,
// password_hash — all in one statement so a password change can never be
// observed apart from the rest of the update.
func (r *UserRepository) Update(ctx context.Context, id int64, update ports.UserUpdate) error {
	const query = `
	UPDATE users
	SET name = $1, email = $2, role = $3, status = $4,
	    password_hash = COALESCE(NULLIF($5, ''), password_hash)
	WHERE id = $6;`

	tag, err := r.pool.Exec(ctx, query, update.Name, update.Email, string(update.Role), string(update.Status), update.PasswordHash, id)
	if err != nil {
		if constraintErr := classifyConstraint(err); constraintErr != nil {
			return constraintErr
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete hard-deletes a row. Rows referenced by a foreign key elsewhere are
// left untouched and reported as a conflict.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		if constraintErr := classifyConstraint(err); constraintErr != nil {
			return constraintErr
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role, status string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &status, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.Role = domain.Role(role)
	u.Status = domain.Status(status)
	return &u, nil
}

// classifyConstraint maps the store's constraint violations onto domain
// errors. Anything else returns nil and is wrapped by the caller.
func classifyConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return domain.ErrDuplicateEmail
	case codeForeignKeyViolation:
		return domain.ErrReferentialConflict
	}
	return nil
}
