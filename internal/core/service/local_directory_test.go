package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/ports"
)

type memUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := *user
	stored.ID = strconv.Itoa(r.nextID)
	r.byEmail[user.Email] = &stored
	return &stored, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func TestLocalDirectory_RegisterThenLogin(t *testing.T) {
	dir := NewLocalDirectory(newMemUserRepo())

	created, err := dir.Register(context.Background(), ports.RegisterInput{
		Email:    "local@clinic.test",
		Password: "secret123",
		Roles:    []domain.Role{domain.RolePatient},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.Token == "" || created.UserID == "" {
		t.Fatalf("register result incomplete: %+v", created)
	}

	logged, err := dir.Login(context.Background(), "local@clinic.test", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.UserID != created.UserID {
		t.Fatalf("user id changed between register and login")
	}
	if logged.Token == created.Token {
		t.Fatalf("each login must mint a fresh credential")
	}
}

func TestLocalDirectory_WrongPasswordAndUnknownUser(t *testing.T) {
	dir := NewLocalDirectory(newMemUserRepo())

	if _, err := dir.Register(context.Background(), ports.RegisterInput{
		Email:    "local@clinic.test",
		Password: "secret123",
		Roles:    []domain.Role{domain.RolePatient},
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := dir.Login(context.Background(), "local@clinic.test", "nope")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}

	// An unknown account reads the same as a bad password.
	_, err = dir.Login(context.Background(), "ghost@clinic.test", "secret123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: err = %v", err)
	}
}

func TestLocalDirectory_DuplicateEmail(t *testing.T) {
	dir := NewLocalDirectory(newMemUserRepo())

	input := ports.RegisterInput{
		Email:    "local@clinic.test",
		Password: "secret123",
		Roles:    []domain.Role{domain.RolePatient},
	}
	if _, err := dir.Register(context.Background(), input); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := dir.Register(context.Background(), input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("duplicate register: err = %v", err)
	}
}
