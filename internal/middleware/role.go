package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces that the authenticated user has one of the given
// roles. Role-gated consoles send mismatched users back to the home
// screen with a redirect rather than a bare 403 page; anonymous users go
// to login instead. Assumes LoadSession ran earlier in the chain.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := CurrentSession(c)
			if sess == nil {
				return c.Redirect(http.StatusSeeOther, LoginURL(c.Request().URL.Path))
			}
			if !allowed[sess.User.Role] {
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}
