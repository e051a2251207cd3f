package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/ports"
)

// Context keys set by ResolveSession and read by the guards and handlers.
const (
	IdentityKey  = "identity"
	SessionIDKey = "session_id"
)

// ResolveSession resolves the caller's session from the bearer token and
// injects the identity into the request context. It never rejects: a
// missing, malformed, or expired token simply leaves the request
// unauthenticated so the route guards can decide between redirecting to
// login and redirecting away from public-only views. The identity is always
// re-read from the session store; token role claims are never trusted for
// authorization, which is what makes a role update visible on the very next
// request.
func ResolveSession(jwtSecret string, sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, ok := sessionIDFromHeader(c, jwtSecret)
			if !ok {
				return next(c)
			}

			sess, err := sessions.Current(c.Request().Context(), sid)
			if err != nil {
				// Expired or cleared server-side; the token alone proves nothing.
				return next(c)
			}

			c.Set(IdentityKey, &sess.Identity)
			c.Set(SessionIDKey, sess.ID)
			return next(c)
		}
	}
}

// sessionIDFromHeader validates the bearer JWT and extracts the sid claim.
func sessionIDFromHeader(c echo.Context, jwtSecret string) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}

	sid, _ := claims["sid"].(string)
	return sid, sid != ""
}

// IdentityFromContext returns the resolved identity, or nil when the request
// is unauthenticated.
func IdentityFromContext(c echo.Context) *domain.Identity {
	identity, _ := c.Get(IdentityKey).(*domain.Identity)
	return identity
}

// SessionIDFromContext returns the resolved session id, or "".
func SessionIDFromContext(c echo.Context) string {
	sid, _ := c.Get(SessionIDKey).(string)
	return sid
}

// RolesFromContext returns the resolved identity's role set. Absent identity
// yields an empty set, never an error: every permission check downstream
// then denies cleanly.
func RolesFromContext(c echo.Context) []domain.Role {
	if identity := IdentityFromContext(c); identity != nil {
		return identity.Roles
	}
	return nil
}
