package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/console-api/internal/api/middleware"
	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/permission"
)

// AuthorizationHandler exposes the effective permission surface the console
// uses to decide which affordances to render. Everything here is derived
// fresh from the request's role set on every call.
type AuthorizationHandler struct {
	evaluator *permission.Evaluator
}

func NewAuthorizationHandler(evaluator *permission.Evaluator) *AuthorizationHandler {
	return &AuthorizationHandler{evaluator: evaluator}
}

// Snapshot returns the full effective permission set for the caller.
//
// @Summary      Effective permissions
// @Tags         authorization
// @Produce      json
// @Success      200  {object}  permissionsResponse
// @Security     BearerAuth
// @Router       /v1/authorization [get]
func (h *AuthorizationHandler) Snapshot(c echo.Context) error {
	roles := middleware.RolesFromContext(c)

	caps := make(map[string]bool, len(domain.AllCapabilities))
	for cap, granted := range h.evaluator.Capabilities(roles) {
		caps[string(cap)] = granted
	}

	modules := h.evaluator.Modules(roles)
	moduleIDs := make([]string, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, string(m))
	}

	return c.JSON(http.StatusOK, permissionsResponse{
		Capabilities: caps,
		Modules:      moduleIDs,
		IsAdmin:      h.evaluator.IsAdmin(roles),
	})
}

// Check is the click-time re-check for capability-gated actions. A denial is
// a boolean outcome, never an error: the response is always 200 and the
// caller branches on it.
//
// @Summary      Check one capability
// @Tags         authorization
// @Accept       json
// @Produce      json
// @Param        body  body      capabilityCheckRequest  true  "Capability to check"
// @Success      200   {object}  capabilityCheckResponse
// @Failure      400   {object}  errorResponse
// @Security     BearerAuth
// @Router       /v1/authorization/check [post]
func (h *AuthorizationHandler) Check(c echo.Context) error {
	var req capabilityCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Unrecognized capability names evaluate to false rather than erroring.
	allowed := h.evaluator.Can(middleware.RolesFromContext(c), domain.Capability(req.Capability))
	return c.JSON(http.StatusOK, capabilityCheckResponse{Capability: req.Capability, Allowed: allowed})
}
