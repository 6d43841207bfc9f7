// Package handler contains the Echo handlers of the gateway. Handlers
// hold their dependencies in small structs and translate between the
// browser-facing JSON surface and the reservation API client.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/middleware"
)

// browserCookie identifies an anonymous browser so a booking flow can be
// picked up across requests before the user ever logs in.
const browserCookie = "bronla_browser"

const browserTTL = 30 * 24 * time.Hour

// browserID returns the flow identity for this browser, setting the
// cookie on first contact.
func browserID(c echo.Context) string {
	if ck, err := c.Cookie(browserCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     browserCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(browserTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// upstreamError maps a reservation API failure onto the gateway response.
// Validation failures keep their status and field map; an expired session
// turns into a login redirect payload; anything else is a bad gateway.
func upstreamError(c echo.Context, err error) error {
	if errors.Is(err, api.ErrAuthExpired) {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error":     "session expired",
			"login_url": middleware.LoginURL(c.Request().URL.Path),
		})
	}
	var ae *api.Error
	if errors.As(err, &ae) {
		body := echo.Map{"error": ae.Error()}
		if len(ae.Fields) > 0 {
			body["fields"] = ae.Fields
		}
		status := ae.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return c.JSON(status, body)
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "reservation service unavailable"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// Health is the liveness probe.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
