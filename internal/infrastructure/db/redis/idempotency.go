package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const submissionTTL = time.Hour

// SubmissionGuard provides double-submit protection backed by Redis.
// Key format: submission:<idempotency_key>
type SubmissionGuard struct {
	client *redis.Client
}

// NewSubmissionGuard creates a SubmissionGuard wrapping the given Redis client.
func NewSubmissionGuard(client *redis.Client) *SubmissionGuard {
	return &SubmissionGuard{client: client}
}

// Claim atomically records the key and reports whether this submission is the
// first one. A false result means a replay within submissionTTL.
func (g *SubmissionGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(key), "1", submissionTTL).Result()
	if err != nil {
		return false, fmt.Errorf("submission claim: %w", err)
	}
	return ok, nil
}

func (g *SubmissionGuard) key(idempotencyKey string) string {
	return fmt.Sprintf("submission:%s", idempotencyKey)
}
