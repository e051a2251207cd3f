package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/clinicore/console-api/internal/core/domain"
)

type stubAuditRepo struct {
	events    []domain.AuthEvent
	lastLimit int64
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuthEvent) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *stubAuditRepo) ListRecent(_ context.Context, limit int64) ([]domain.AuthEvent, error) {
	r.lastLimit = limit
	return r.events, nil
}

func TestAuditList(t *testing.T) {
	now := time.Now().UTC()
	repo := &stubAuditRepo{events: []domain.AuthEvent{
		{Kind: domain.AuthEventPermissionDenied, Email: "nurse@clinic.test", Detail: "module:warehouse", Timestamp: now},
		{Kind: domain.AuthEventLogin, Email: "doc@clinic.test", Timestamp: now.Add(-time.Minute)},
	}}
	h := NewAuditHandler(repo)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/audit/events?limit=50", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastLimit != 50 {
		t.Fatalf("limit = %d, want 50", repo.lastLimit)
	}

	var out []auditEventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d events, want 2", len(out))
	}
	if out[0].Kind != "permission_denied" || out[1].Kind != "login" {
		t.Fatalf("events = %+v", out)
	}
}

func TestAuditDenials_FiltersKind(t *testing.T) {
	now := time.Now().UTC()
	repo := &stubAuditRepo{events: []domain.AuthEvent{
		{Kind: domain.AuthEventLogin, Email: "doc@clinic.test", Timestamp: now},
		{Kind: domain.AuthEventPermissionDenied, Email: "nurse@clinic.test", Detail: "capability:delete_medications", Timestamp: now},
		{Kind: domain.AuthEventLogout, SessionID: "sid-1", Timestamp: now},
	}}
	h := NewAuditHandler(repo)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/reports/access-denials", "")
	if err := h.Denials(c); err != nil {
		t.Fatalf("denials failed: %v", err)
	}

	var out []auditEventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d events, want only the denial", len(out))
	}
	if out[0].Detail != "capability:delete_medications" {
		t.Fatalf("detail = %q", out[0].Detail)
	}
}
