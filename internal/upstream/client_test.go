package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/ports"
)

func TestClient_LoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var payload loginPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Email != "doc@clinic.test" || payload.Password != "secret123" {
			t.Errorf("credentials not forwarded: %+v", payload)
		}
		json.NewEncoder(w).Encode(authPayload{
			Token:       "upstream-credential",
			UserID:      "u-1",
			Email:       "doc@clinic.test",
			Roles:       []string{"Doctor"},
			PhoneNumber: "5550001",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result, err := client.Login(context.Background(), "doc@clinic.test", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token != "upstream-credential" || result.UserID != "u-1" {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Roles) != 1 || result.Roles[0] != domain.RoleDoctor {
		t.Fatalf("roles = %v", result.Roles)
	}
}

func TestClient_LoginInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Login(context.Background(), "doc@clinic.test", "wrong")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestClient_RegisterForwardsForm(t *testing.T) {
	var got registerPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(authPayload{
			Token:  "cred",
			UserID: "u-2",
			Email:  got.Email,
			Roles:  got.Roles,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result, err := client.Register(context.Background(), ports.RegisterInput{
		Email:          "nurse@clinic.test",
		Password:       "secret123",
		Roles:          []domain.Role{domain.RoleNurse},
		Identification: "ID-77",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if got.Identification != "ID-77" {
		t.Fatalf("identification not forwarded: %+v", got)
	}
	if result.Email != "nurse@clinic.test" {
		t.Fatalf("result = %+v", result)
	}
}

func TestClient_RejectsUnknownRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(authPayload{
			Token: "cred", UserID: "u-3", Email: "x@clinic.test", Roles: []string{"janitor"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.Login(context.Background(), "x@clinic.test", "pw"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("err = %v, want ErrInvalidRole", err)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.Login(context.Background(), "x@clinic.test", "pw"); !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.Login(context.Background(), "x@clinic.test", "pw"); !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}
