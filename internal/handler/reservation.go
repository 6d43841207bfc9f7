package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bronla/gateway/internal/middleware"
	"github.com/bronla/gateway/internal/session"
)

// ReservationHandler serves the diner's own reservations.
type ReservationHandler struct {
	Sessions *session.Manager
}

func NewReservationHandler(m *session.Manager) *ReservationHandler {
	return &ReservationHandler{Sessions: m}
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *ReservationHandler) List(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	client := h.Sessions.Client(c.Request().Context(), sess)

	page, err := client.MyReservations(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	sess := middleware.CurrentSession(c)
	client := h.Sessions.Client(c.Request().Context(), sess)

	res, err := client.Reservation(c.Request().Context(), id)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel rejects locally when the reservation is past the cancellable
// states, saving the round trip the API would refuse anyway.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	sess := middleware.CurrentSession(c)
	client := h.Sessions.Client(c.Request().Context(), sess)
	ctx := c.Request().Context()

	res, err := client.Reservation(ctx, id)
	if err != nil {
		return upstreamError(c, err)
	}
	if !res.CanCancel() {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "reservation can no longer be cancelled",
		})
	}
	if err := client.CancelReservation(ctx, id); err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}
