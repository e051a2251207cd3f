package ports

import (
	"context"

	"github.com/clinicore/console-api/internal/core/domain"
)

// AuthResult is what an authentication backend returns on success: the
// opaque bearer credential issued for the identity plus the profile fields
// the console needs. Roles are already validated against the closed role
// enumeration by the gateway implementation.
type AuthResult struct {
	Token       string
	UserID      string
	Email       string
	Roles       []domain.Role
	PhoneNumber string
}

// RegisterInput carries the registration form. Identification is mandatory
// when any requested role is above the default unprivileged one; the service
// enforces that before the gateway is called.
type RegisterInput struct {
	Email          string
	Password       string
	Roles          []domain.Role
	PhoneNumber    string
	Identification string
}

// AuthGateway abstracts where accounts live: the remote clinic API in
// production, or the embedded Mongo-backed directory in local mode.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
}
