package ports

import (
	"context"

	"github.com/fleetops/fleet-console/internal/core/domain"
)

// FleetService exposes the current simulated vehicle positions.
type FleetService interface {
	Snapshot() []domain.Vehicle
}

// SubmissionGuard provides replay protection for form submissions carrying
// an idempotency key. Claim returns false when the key was already seen
// within the guard's retention window.
type SubmissionGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
}
