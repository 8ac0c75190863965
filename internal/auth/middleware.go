package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Middleware wires the access gate into Echo. Both settings are read
// once at startup and never change for the process lifetime.
type Middleware struct {
	policy         Policy
	actionsEnabled bool
}

// NewMiddleware creates the gate middleware for a secret (empty
// disables auth) and the actions switch.
func NewMiddleware(secret string, actionsEnabled bool) *Middleware {
	return &Middleware{
		policy:         PolicyFor(secret),
		actionsEnabled: actionsEnabled,
	}
}

// RequireAuth rejects requests the policy does not admit. It runs
// before any runtime call, so rejected requests have no side effects.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := m.policy.Check(c.Request().Header.Get("Authorization"))
		switch {
		case errors.Is(err, ErrUnauthenticated):
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		case errors.Is(err, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "invalid token")
		case err != nil:
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
		}
		return next(c)
	}
}

// RequireActions rejects mutating requests when actions are disabled.
// It is checked ahead of authentication so a disabled deployment never
// reaches the runtime regardless of credentials.
func (m *Middleware) RequireActions(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.actionsEnabled {
			return echo.NewHTTPError(http.StatusForbidden, "actions are disabled")
		}
		return next(c)
	}
}
