package ports

import (
	"context"

	"github.com/clinicore/console-api/internal/core/domain"
)

// UserRepository is the embedded local directory's persistence interface.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
