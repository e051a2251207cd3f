package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/console-api/internal/api/middleware"
	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/ports"
)

// SessionHandler exposes the session lifecycle over HTTP.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login authenticates and opens a console session.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	outcome, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Token: outcome.SessionToken,
		User:  toIdentityResponse(outcome.Identity),
	})
}

// Register creates an account and opens a console session.
//
// @Summary      Register
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	// Local validation failures stop here; the gateway is never called.
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	outcome, err := h.sessions.Register(c.Request().Context(), ports.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		Roles:          toRoles(req.Roles),
		PhoneNumber:    req.PhoneNumber,
		Identification: req.Identification,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Token: outcome.SessionToken,
		User:  toIdentityResponse(outcome.Identity),
	})
}

// Logout closes the session. Always succeeds, including without a session.
//
// @Summary      Log out
// @Tags         session
// @Success      204  "session cleared"
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), middleware.SessionIDFromContext(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the current identity.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Security     BearerAuth
// @Router       /v1/session [get]
func (h *SessionHandler) Me(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
	}
	resp := toIdentityResponse(*identity)
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: true, User: &resp})
}

// UpdateUser shallow-merges profile fields into the current identity.
//
// @Summary      Update profile
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      updateUserRequest  true  "Fields to merge"
// @Success      200   {object}  identityResponse
// @Failure      400   {object}  errorResponse
// @Security     BearerAuth
// @Router       /v1/session/user [patch]
func (h *SessionHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateUserInput{
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Identification: req.Identification,
	}
	if req.Roles != nil {
		input.Roles = toRoles(req.Roles)
	}

	identity, err := h.sessions.UpdateUser(c.Request().Context(), middleware.SessionIDFromContext(c), input)
	if err != nil {
		return err
	}
	if identity == nil {
		// Session vanished between resolve and update; merge is a no-op.
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, toIdentityResponse(*identity))
}

func toIdentityResponse(identity domain.Identity) identityResponse {
	roles := make([]string, 0, len(identity.Roles))
	for _, r := range identity.Roles {
		roles = append(roles, string(r))
	}
	return identityResponse{
		ID:             identity.ID,
		Email:          identity.Email,
		Roles:          roles,
		PhoneNumber:    identity.PhoneNumber,
		Identification: identity.Identification,
	}
}

func toRoles(roles []string) []domain.Role {
	out := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, domain.Role(r))
	}
	return out
}
