package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/ports"
)

// AuditHandler serves the auth audit trail to user administrators.
type AuditHandler struct {
	repo ports.AuditRepository
}

func NewAuditHandler(repo ports.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

type auditEventResponse struct {
	Kind      string    `json:"kind"`
	Email     string    `json:"email,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// List returns recent auth events, newest first.
//
// @Summary      Auth audit trail
// @Tags         audit
// @Produce      json
// @Param        limit  query     int  false  "Max events (default 100)"
// @Success      200    {array}   auditEventResponse
// @Failure      403    {object}  errorResponse
// @Security     BearerAuth
// @Router       /v1/audit/events [get]
func (h *AuditHandler) List(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	events, err := h.repo.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	out := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, auditEventResponse{
			Kind:      string(e.Kind),
			Email:     e.Email,
			SessionID: e.SessionID,
			Detail:    e.Detail,
			Timestamp: e.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Denials reports recent permission denials: which gates rejected whom.
//
// @Summary      Access denial report
// @Tags         audit
// @Produce      json
// @Param        limit  query     int  false  "Max events (default 100)"
// @Success      200    {array}   auditEventResponse
// @Failure      403    {object}  errorResponse
// @Security     BearerAuth
// @Router       /v1/reports/access-denials [get]
func (h *AuditHandler) Denials(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	events, err := h.repo.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	out := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		if e.Kind != domain.AuthEventPermissionDenied {
			continue
		}
		out = append(out, auditEventResponse{
			Kind:      string(e.Kind),
			Email:     e.Email,
			SessionID: e.SessionID,
			Detail:    e.Detail,
			Timestamp: e.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, out)
}
