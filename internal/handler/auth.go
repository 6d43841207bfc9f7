package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/middleware"
	"github.com/bronla/gateway/internal/session"
)

// AuthHandler bundles dependencies for login, registration and profile
// endpoints. The gateway never stores credentials; it exchanges them with
// the reservation API and keeps only the session.
type AuthHandler struct {
	Sessions *session.Manager
	Cookies  *session.Cookies
	TTL      time.Duration
}

func NewAuthHandler(m *session.Manager, cookies *session.Cookies, ttl time.Duration) *AuthHandler {
	return &AuthHandler{Sessions: m, Cookies: cookies, TTL: ttl}
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerReq struct {
	Username        string `json:"username" validate:"required"`
	FullName        string `json:"full_name" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Phone           string `json:"phone"`
}

func (h *AuthHandler) setSessionCookie(c echo.Context, sessionID string) error {
	value, err := h.Cookies.Issue(sessionID)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.TTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login exchanges credentials for a session. The response carries the
// user so the browser can render the account menu without a second call.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.Sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return upstreamError(c, err)
	}
	if err := h.setSessionCookie(c, sess.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": sess.User})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.Sessions.Register(c.Request().Context(), api.RegisterRequest{
		Username:        req.Username,
		FullName:        req.FullName,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Phone:           req.Phone,
	})
	if err != nil {
		return upstreamError(c, err)
	}
	if err := h.setSessionCookie(c, sess.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": sess.User})
}

// Logout revokes the remote refresh token (best effort) and drops the
// session. Always succeeds from the browser's point of view.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess := middleware.CurrentSession(c); sess != nil {
		h.Sessions.Logout(c.Request().Context(), sess)
	}
	clearSessionCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Me returns the current user, refreshing the access token first when it
// is about to lapse. An unusable session is reported as anonymous rather
// than an error so the browser can render the logged-out state.
func (h *AuthHandler) Me(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return c.JSON(http.StatusOK, echo.Map{"authenticated": false})
	}
	user, ok, err := h.Sessions.CheckAuth(c.Request().Context(), sess)
	if err != nil {
		// The API is unreachable, not the session invalid. Keep the cookie
		// so the user is still logged in once the outage passes.
		return c.JSON(http.StatusOK, echo.Map{"authenticated": false})
	}
	if !ok {
		clearSessionCookie(c)
		return c.JSON(http.StatusOK, echo.Map{"authenticated": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"authenticated": true, "user": user})
}

type profileReq struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

func (h *AuthHandler) UpdateMe(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client := h.Sessions.Client(c.Request().Context(), sess)
	user, err := client.UpdateMe(c.Request().Context(), api.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return upstreamError(c, err)
	}
	sess.User = *user
	_ = h.Sessions.Store().Save(c.Request().Context(), sess)
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
