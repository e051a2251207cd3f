package ports

import (
	"context"

	"github.com/clinicore/console-api/internal/core/domain"
)

// AuthOutcome is returned by Login and Register: the console session token
// (a signed JWT whose sid claim keys the stored session) and the committed
// identity.
type AuthOutcome struct {
	SessionToken string
	Identity     domain.Identity
}

// UpdateUserInput is a shallow merge: nil fields leave the current value
// untouched, non-nil fields replace it wholesale.
type UpdateUserInput struct {
	Email          *string
	PhoneNumber    *string
	Identification *string
	Roles          []domain.Role
}

// SessionService is the single owner of the session lifecycle. All writes to
// the persisted Identity/Credential pair go through it.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*AuthOutcome, error)
	Register(ctx context.Context, input RegisterInput) (*AuthOutcome, error)
	// Logout clears the session unconditionally and never fails; logging out
	// an already-absent session is a no-op.
	Logout(ctx context.Context, sessionID string) error
	// UpdateUser merges the partial into the current identity and re-persists
	// it. Without a live session it is a silent no-op.
	UpdateUser(ctx context.Context, sessionID string, input UpdateUserInput) (*domain.Identity, error)
	// Current reads the persisted session, or domain.ErrSessionNotFound.
	Current(ctx context.Context, sessionID string) (*domain.Session, error)
}
