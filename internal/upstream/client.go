// Package upstream talks to the remote clinic API that owns staff accounts.
// It is the production AuthGateway: the gateway trusts the credential and
// role claims the upstream issues and persists them without re-validation
// beyond the closed role enumeration.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clinicore/console-api/internal/api/metrics"
	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client implements ports.AuthGateway against the remote clinic API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the given base URL. A non-positive timeout
// falls back to defaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerPayload struct {
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Roles          []string `json:"roles"`
	PhoneNumber    string   `json:"phoneNumber,omitempty"`
	Identification string   `json:"identification,omitempty"`
}

// authPayload is the upstream success shape for both login and register.
type authPayload struct {
	Token       string   `json:"token"`
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	PhoneNumber string   `json:"phoneNumber"`
}

// Login posts credentials to the upstream and returns its issued credential
// and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return c.post(ctx, "/auth/login", loginPayload{Email: email, Password: password})
}

// Register creates the account upstream; the success shape matches Login.
func (c *Client) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	roles := make([]string, 0, len(input.Roles))
	for _, r := range input.Roles {
		roles = append(roles, string(r))
	}
	return c.post(ctx, "/auth/register", registerPayload{
		Email:          input.Email,
		Password:       input.Password,
		Roles:          roles,
		PhoneNumber:    input.PhoneNumber,
		Identification: input.Identification,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) (*ports.AuthResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("upstream: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: NormalizeError(raw)}
	}

	var parsed authPayload
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response", domain.ErrUpstreamUnavailable)
	}

	roles := make([]domain.Role, 0, len(parsed.Roles))
	for _, r := range parsed.Roles {
		role := domain.Role(r)
		if !domain.ValidRole(role) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, r)
		}
		roles = append(roles, role)
	}

	return &ports.AuthResult{
		Token:       parsed.Token,
		UserID:      parsed.UserID,
		Email:       parsed.Email,
		Roles:       roles,
		PhoneNumber: parsed.PhoneNumber,
	}, nil
}
