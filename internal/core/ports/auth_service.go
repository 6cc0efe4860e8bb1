package ports

import (
	"context"

	"github.com/fleetops/fleet-console/internal/core/domain"
)

// TokenClaims is the decoded payload of a session token.
type TokenClaims struct {
	UserID    int64       `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IssuedAt  int64       `json:"iat"`
	ExpiresAt int64       `json:"exp"`
}

// AuthService verifies credentials and manages session tokens.
type AuthService interface {
	// Login checks email/password and returns a signed token plus the
	// matching user. Unknown email and wrong password are indistinguishable.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// VerifyToken validates an Authorization header value ("Bearer <token>")
	// by signature and expiry only; it does not re-check the user row.
	VerifyToken(authorization string) (*TokenClaims, error)
}
