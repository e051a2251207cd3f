package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	attemptKeyPrefix = "console:attempt:"
	attemptTTL       = 30 * time.Second
)

// AttemptGuard serializes login/register attempts per principal via SetNX.
// The TTL bounds how long a crashed attempt can hold the lock.
type AttemptGuard struct {
	client *redis.Client
}

// NewAttemptGuard creates an AttemptGuard wrapping the given Redis client.
func NewAttemptGuard(client *redis.Client) *AttemptGuard {
	return &AttemptGuard{client: client}
}

// Acquire takes the per-email lock. It returns false when another attempt
// for the same email is already in flight.
func (g *AttemptGuard) Acquire(ctx context.Context, email string) (bool, error) {
	ok, err := g.client.SetNX(ctx, attemptKeyPrefix+email, "1", attemptTTL).Result()
	if err != nil {
		return false, fmt.Errorf("attempt guard acquire: %w", err)
	}
	return ok, nil
}

// Release frees the lock once the attempt settles.
func (g *AttemptGuard) Release(ctx context.Context, email string) error {
	if err := g.client.Del(ctx, attemptKeyPrefix+email).Err(); err != nil {
		return fmt.Errorf("attempt guard release: %w", err)
	}
	return nil
}
