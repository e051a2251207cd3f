package ports

import (
	"context"

	"github.com/clinicore/console-api/internal/core/domain"
)

// SessionRepository persists Identity+Credential pairs. A session is always
// written as a single record, so the pair commits atomically: readers never
// observe an identity without its credential or the reverse.
type SessionRepository interface {
	// Put stores or replaces the session under its ID.
	Put(ctx context.Context, s *domain.Session) error
	// Get returns the session or domain.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error
}
