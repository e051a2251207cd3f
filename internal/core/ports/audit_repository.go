package ports

import (
	"context"

	"github.com/clinicore/console-api/internal/core/domain"
)

// AuditRepository persists and queries auth audit trail events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int64) ([]domain.AuthEvent, error)
}
