// Package middleware provides shared request processing: session loading,
// auth and role gates, request logging, response caching and rate
// limiting.
package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/bronla/gateway/internal/session"
)

// Context keys set by LoadSession.
const (
	ctxSession = "session"
	ctxRole    = "role"
)

// LoadSession resolves the session cookie into a *session.Session and
// stashes it in the request context. Anonymous and tampered cookies pass
// through with no session set; gating is left to RequireAuth/RequireRole.
func LoadSession(store *session.Store, cookies *session.Cookies) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err == nil && cookie.Value != "" {
				if sid, ok := cookies.Parse(cookie.Value); ok {
					if sess, ok := store.Get(c.Request().Context(), sid); ok {
						c.Set(ctxSession, sess)
						c.Set(ctxRole, sess.User.Role)
					}
				}
			}
			return next(c)
		}
	}
}

// CurrentSession returns the session loaded for this request, or nil.
func CurrentSession(c echo.Context) *session.Session {
	if s, ok := c.Get(ctxSession).(*session.Session); ok {
		return s
	}
	return nil
}

// LoginURL builds the login path carrying a return-to location, so the
// user lands back where they can resume after authenticating.
func LoginURL(returnTo string) string {
	return "/auth/login?redirect=" + url.QueryEscape(returnTo)
}

// RequireAuth rejects anonymous requests with 401 and a login URL that
// returns to the page the request came from.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentSession(c) == nil {
				returnTo := c.Request().Header.Get("Referer")
				if returnTo == "" {
					returnTo = "/"
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":     "authentication required",
					"login_url": LoginURL(returnTo),
				})
			}
			return next(c)
		}
	}
}
