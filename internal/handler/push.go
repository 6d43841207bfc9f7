package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bronla/gateway/internal/middleware"
	"github.com/bronla/gateway/internal/model"
	"github.com/bronla/gateway/internal/push"
	"github.com/bronla/gateway/internal/session"
)

// PushHandler serves the service worker and relays Web Push subscriptions
// to the reservation API.
type PushHandler struct {
	Bridge   *push.Bridge
	Sessions *session.Manager
}

func NewPushHandler(bridge *push.Bridge, m *session.Manager) *PushHandler {
	return &PushHandler{Bridge: bridge, Sessions: m}
}

// ServiceWorker must be served from the site root so its scope covers the
// whole application.
func (h *PushHandler) ServiceWorker(c echo.Context) error {
	c.Response().Header().Set("Service-Worker-Allowed", "/")
	return c.Blob(http.StatusOK, "application/javascript", push.ServiceWorker)
}

func (h *PushHandler) VapidPublicKey(c echo.Context) error {
	key, err := h.Bridge.VapidPublicKey(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"public_key": key})
}

type subscribeReq struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	P256dh   string `json:"p256dh" validate:"required"`
	Auth     string `json:"auth" validate:"required"`
}

func (h *PushHandler) Subscribe(c echo.Context) error {
	var req subscribeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client := h.Sessions.Client(c.Request().Context(), middleware.CurrentSession(c))
	err := h.Bridge.Subscribe(c.Request().Context(), client, model.PushSubscription{
		Endpoint: req.Endpoint,
		P256dh:   req.P256dh,
		Auth:     req.Auth,
	})
	if err != nil {
		if errors.Is(err, push.ErrInvalidSubscription) {
			return badRequest(c, err.Error())
		}
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "subscribed"})
}

type unsubscribeReq struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}

func (h *PushHandler) Unsubscribe(c echo.Context) error {
	var req unsubscribeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client := h.Sessions.Client(c.Request().Context(), middleware.CurrentSession(c))
	if err := h.Bridge.Unsubscribe(c.Request().Context(), client, req.Endpoint); err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "unsubscribed"})
}
