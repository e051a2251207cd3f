package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/ports"
)

// LocalDirectory is the embedded AuthGateway: accounts live in Mongo and
// credentials are random opaque tokens minted here. It lets the gateway run
// standalone (dev, on-prem) without the remote clinic API.
type LocalDirectory struct {
	users ports.UserRepository
}

// NewLocalDirectory returns a LocalDirectory over the given user repository.
func NewLocalDirectory(users ports.UserRepository) *LocalDirectory {
	return &LocalDirectory{users: users}
}

// Login verifies the password against the stored bcrypt hash and issues a
// fresh opaque credential.
func (d *LocalDirectory) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := d.users.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &ports.AuthResult{
		Token:       opaqueCredential(),
		UserID:      user.ID,
		Email:       user.Email,
		Roles:       user.Roles,
		PhoneNumber: user.PhoneNumber,
	}, nil
}

// Register creates the account and logs it in, in one step.
func (d *LocalDirectory) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC().Unix()
	created, err := d.users.Create(ctx, &domain.User{
		Email:          input.Email,
		PasswordHash:   string(hash),
		Roles:          input.Roles,
		PhoneNumber:    input.PhoneNumber,
		Identification: input.Identification,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		Token:       opaqueCredential(),
		UserID:      created.ID,
		Email:       created.Email,
		Roles:       created.Roles,
		PhoneNumber: created.PhoneNumber,
	}, nil
}

// opaqueCredential returns a 32-byte random hex token. The credential carries
// no meaning; the session record is the source of truth.
func opaqueCredential() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
