package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
	"github.com/iliyamo/venue-booking-api/internal/auth"
)

const adminKey = "admin"

// Authenticator turns a raw bearer token into an administrator capability.
// service.AuthService implements it.
type Authenticator interface {
	Authenticate(raw string) (auth.Admin, error)
}

// AdminAuth gates a route group on a valid administrator token. The verified
// capability is stored in the context for handlers to pass to services; the
// token's claims are not exposed any other way.
func AdminAuth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			raw = strings.TrimSpace(raw)
			if !ok || raw == "" {
				return apperr.Unauthenticatedf("Access denied. No token provided")
			}
			admin, err := authn.Authenticate(raw)
			if err != nil {
				return err
			}
			c.Set(adminKey, admin)
			return next(c)
		}
	}
}

// AdminFrom returns the capability stored by AdminAuth, or the zero Admin
// on routes the gate does not cover.
func AdminFrom(c echo.Context) auth.Admin {
	if a, ok := c.Get(adminKey).(auth.Admin); ok {
		return a
	}
	return auth.Admin{}
}
