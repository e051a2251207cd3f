package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/console-api/internal/api/middleware"
	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/ports"
)

// stubSessions lets each test script the service layer.
type stubSessions struct {
	loginOutcome    *ports.AuthOutcome
	loginErr        error
	registerOutcome *ports.AuthOutcome
	registerErr     error
	updatedIdentity *domain.Identity
	updateErr       error
	session         *domain.Session

	loggedOut    []string
	lastRegister ports.RegisterInput
	lastUpdate   ports.UpdateUserInput
}

func (s *stubSessions) Login(_ context.Context, _, _ string) (*ports.AuthOutcome, error) {
	return s.loginOutcome, s.loginErr
}

func (s *stubSessions) Register(_ context.Context, input ports.RegisterInput) (*ports.AuthOutcome, error) {
	s.lastRegister = input
	return s.registerOutcome, s.registerErr
}

func (s *stubSessions) Logout(_ context.Context, sessionID string) error {
	s.loggedOut = append(s.loggedOut, sessionID)
	return nil
}

func (s *stubSessions) UpdateUser(_ context.Context, _ string, input ports.UpdateUserInput) (*domain.Identity, error) {
	s.lastUpdate = input
	return s.updatedIdentity, s.updateErr
}

func (s *stubSessions) Current(_ context.Context, _ string) (*domain.Session, error) {
	if s.session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return s.session, nil
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func doctorOutcome() *ports.AuthOutcome {
	return &ports.AuthOutcome{
		SessionToken: "signed.jwt.token",
		Identity: domain.Identity{
			ID:    "u-1",
			Email: "doc@clinic.test",
			Roles: []domain.Role{domain.RoleDoctor},
		},
	}
}

func TestLoginHandler_Success(t *testing.T) {
	sessions := &stubSessions{loginOutcome: doctorOutcome()}
	h := NewSessionHandler(sessions)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"email":"doc@clinic.test","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "signed.jwt.token" || resp.User.Email != "doc@clinic.test" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestLoginHandler_ValidationFailures(t *testing.T) {
	h := NewSessionHandler(&stubSessions{})

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"secret123"}`},
		{"bad email", `{"email":"not-an-email","password":"secret123"}`},
		{"missing password", `{"email":"doc@clinic.test"}`},
		{"malformed json", `{"email":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newJSONContext(t, http.MethodPost, "/auth/login", tc.body)
			err := h.Login(c)

			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("err = %v, want 400", err)
			}
		})
	}
}

func TestLoginHandler_ServiceErrorPassesThrough(t *testing.T) {
	h := NewSessionHandler(&stubSessions{loginErr: domain.ErrInvalidCredentials})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"email":"doc@clinic.test","password":"wrong-pass"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want the service error for the central handler", err)
	}
}

func TestRegisterHandler_Success(t *testing.T) {
	sessions := &stubSessions{registerOutcome: doctorOutcome()}
	h := NewSessionHandler(sessions)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register",
		`{"email":"doc@clinic.test","password":"secret123","confirm_password":"secret123","roles":["Doctor"],"identification":"ID-1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(sessions.lastRegister.Roles) != 1 || sessions.lastRegister.Roles[0] != domain.RoleDoctor {
		t.Fatalf("roles forwarded = %v", sessions.lastRegister.Roles)
	}
}

func TestRegisterHandler_ValidationFailures(t *testing.T) {
	h := NewSessionHandler(&stubSessions{})

	cases := []struct {
		name string
		body string
	}{
		{"password too short", `{"email":"a@b.test","password":"short","confirm_password":"short"}`},
		{"passwords differ", `{"email":"a@b.test","password":"secret123","confirm_password":"secret124"}`},
		{"unknown role", `{"email":"a@b.test","password":"secret123","confirm_password":"secret123","roles":["Janitor"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newJSONContext(t, http.MethodPost, "/auth/register", tc.body)
			err := h.Register(c)

			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("err = %v, want 400", err)
			}
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	sessions := &stubSessions{}
	h := NewSessionHandler(sessions)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/logout", "")
	c.Set(middleware.SessionIDKey, "sid-1")
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(sessions.loggedOut) != 1 || sessions.loggedOut[0] != "sid-1" {
		t.Fatalf("logged out = %v", sessions.loggedOut)
	}
}

func TestMeHandler(t *testing.T) {
	h := NewSessionHandler(&stubSessions{})

	c, rec := newJSONContext(t, http.MethodGet, "/v1/session", "")
	c.Set(middleware.IdentityKey, &domain.Identity{Email: "doc@clinic.test", Roles: []domain.Role{domain.RoleDoctor}})
	if err := h.Me(c); err != nil {
		t.Fatalf("me failed: %v", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Authenticated || resp.User == nil || resp.User.Email != "doc@clinic.test" {
		t.Fatalf("response = %+v", resp)
	}

	c, rec = newJSONContext(t, http.MethodGet, "/v1/session", "")
	if err := h.Me(c); err != nil {
		t.Fatalf("anonymous me failed: %v", err)
	}
	resp = sessionResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Authenticated || resp.User != nil {
		t.Fatalf("anonymous response = %+v", resp)
	}
}

func TestUpdateUserHandler_Merge(t *testing.T) {
	updated := &domain.Identity{
		ID:          "u-1",
		Email:       "doc@clinic.test",
		Roles:       []domain.Role{domain.RoleMedicalStaff},
		PhoneNumber: "5559999",
	}
	sessions := &stubSessions{updatedIdentity: updated}
	h := NewSessionHandler(sessions)

	c, rec := newJSONContext(t, http.MethodPatch, "/v1/session/user",
		`{"phone_number":"5559999","roles":["MedicalStaff"]}`)
	c.Set(middleware.SessionIDKey, "sid-1")
	if err := h.UpdateUser(c); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if sessions.lastUpdate.Email != nil {
		t.Fatalf("absent field must stay nil in the merge input")
	}
	if sessions.lastUpdate.PhoneNumber == nil || *sessions.lastUpdate.PhoneNumber != "5559999" {
		t.Fatalf("phone not forwarded: %+v", sessions.lastUpdate)
	}

	var resp identityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != "MedicalStaff" {
		t.Fatalf("roles = %v", resp.Roles)
	}
}

func TestUpdateUserHandler_NoSessionIsNoContent(t *testing.T) {
	h := NewSessionHandler(&stubSessions{})

	c, rec := newJSONContext(t, http.MethodPatch, "/v1/session/user", `{"phone_number":"5559999"}`)
	if err := h.UpdateUser(c); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}
