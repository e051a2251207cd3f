package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/console-api/internal/api/middleware"
	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/permission"
)

func defaultEvaluator() *permission.Evaluator {
	return permission.NewEvaluator(permission.MustDefault())
}

func asIdentity(c echo.Context, roles ...domain.Role) {
	c.Set(middleware.IdentityKey, &domain.Identity{Email: "who@clinic.test", Roles: roles})
}

func TestSnapshot_Doctor(t *testing.T) {
	h := NewAuthorizationHandler(defaultEvaluator())

	c, rec := newJSONContext(t, http.MethodGet, "/v1/authorization", "")
	asIdentity(c, domain.RoleDoctor)
	if err := h.Snapshot(c); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	var resp permissionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.IsAdmin {
		t.Fatalf("doctor must not be admin")
	}
	if len(resp.Capabilities) != len(domain.AllCapabilities) {
		t.Fatalf("capability map has %d entries, want the full enumeration", len(resp.Capabilities))
	}
	if !resp.Capabilities[string(domain.CapViewReports)] {
		t.Fatalf("doctor should view reports")
	}
	if resp.Capabilities[string(domain.CapDeleteMedications)] {
		t.Fatalf("doctor must not delete medications")
	}

	hasWarehouse := false
	for _, m := range resp.Modules {
		if m == string(domain.ModuleWarehouse) {
			hasWarehouse = true
		}
	}
	if hasWarehouse {
		t.Fatalf("doctor modules must not include warehouse: %v", resp.Modules)
	}
}

func TestSnapshot_Anonymous(t *testing.T) {
	h := NewAuthorizationHandler(defaultEvaluator())

	c, rec := newJSONContext(t, http.MethodGet, "/v1/authorization", "")
	if err := h.Snapshot(c); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	var resp permissionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for cap, granted := range resp.Capabilities {
		if granted {
			t.Fatalf("anonymous caller holds %s", cap)
		}
	}
	if len(resp.Modules) != 0 || resp.IsAdmin {
		t.Fatalf("anonymous response = %+v", resp)
	}
}

func TestCheck_AlwaysBooleanOutcome(t *testing.T) {
	h := NewAuthorizationHandler(defaultEvaluator())

	cases := []struct {
		name       string
		roles      []domain.Role
		capability string
		want       bool
	}{
		{"granted", []domain.Role{domain.RoleDoctor}, string(domain.CapViewReports), true},
		{"denied", []domain.Role{domain.RoleDoctor}, string(domain.CapDeleteMedications), false},
		{"unknown capability", []domain.Role{domain.RoleAdmin}, "teleport", false},
		{"anonymous", nil, string(domain.CapViewReports), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodPost, "/v1/authorization/check",
				`{"capability":"`+tc.capability+`"}`)
			if tc.roles != nil {
				asIdentity(c, tc.roles...)
			}
			if err := h.Check(c); err != nil {
				t.Fatalf("check failed: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, a denial is never an error", rec.Code)
			}

			var resp capabilityCheckResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Allowed != tc.want {
				t.Fatalf("allowed = %v, want %v", resp.Allowed, tc.want)
			}
		})
	}
}

func TestCheck_MissingCapabilityIsBadRequest(t *testing.T) {
	h := NewAuthorizationHandler(defaultEvaluator())

	c, _ := newJSONContext(t, http.MethodPost, "/v1/authorization/check", `{}`)
	err := h.Check(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}
