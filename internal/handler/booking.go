package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/booking"
	"github.com/bronla/gateway/internal/middleware"
	"github.com/bronla/gateway/internal/session"
)

// BookingHandler drives the per-browser booking flow. Each call returns
// the refreshed flow view so the panel always renders the state the
// gateway holds, never what the browser thinks it has.
type BookingHandler struct {
	Flows    *booking.FlowStore
	Sessions *session.Manager
	API      *api.Client
	Log      *zap.Logger
}

func NewBookingHandler(flows *booking.FlowStore, m *session.Manager, client *api.Client, log *zap.Logger) *BookingHandler {
	return &BookingHandler{Flows: flows, Sessions: m, API: client, Log: log}
}

type queryReq struct {
	Date       string `json:"date"`
	GuestCount int    `json:"guest_count"`
}

type selectReq struct {
	Place int64  `json:"place"`
	Time  string `json:"time" validate:"required"`
}

type submitReq struct {
	Notes string `json:"notes" validate:"max=500"`
}

// flow resolves the controller for this browser and restaurant. The
// restaurant lookup doubles as slug validation; an unknown slug never
// creates a flow.
func (h *BookingHandler) flow(c echo.Context) (*booking.Controller, string, error) {
	slug := c.Param("slug")
	r, err := h.API.Restaurant(c.Request().Context(), slug)
	if err != nil {
		return nil, "", upstreamError(c, err)
	}
	return h.Flows.Get(browserID(c), slug, r.ID), slug, nil
}

// Query sets the (date, guest count) pair and loads availability for it.
// A repeated identical query is a no-op; an incomplete one clears the
// panel without touching the network. The load compares the key again
// before applying, so a response for an outdated query is discarded even
// when it arrives after the user has already moved on.
func (h *BookingHandler) Query(c echo.Context) error {
	var req queryReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctrl, _, err := h.flow(c)
	if err != nil {
		return err
	}

	key := booking.QueryKey{Date: req.Date, GuestCount: req.GuestCount}
	if ctrl.SetQuery(key) && key.Valid() {
		ctrl.Load(c.Request().Context())
	}
	return c.JSON(http.StatusOK, ctrl.Snapshot())
}

// Select records the chosen slot.
func (h *BookingHandler) Select(c echo.Context) error {
	var req selectReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctrl, _, err := h.flow(c)
	if err != nil {
		return err
	}

	if err := ctrl.Select(req.Place, req.Time); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": err.Error(),
			"view":  ctrl.Snapshot(),
		})
	}
	return c.JSON(http.StatusOK, ctrl.Snapshot())
}

// Submit creates the reservation. Anonymous browsers are redirected to
// login with the restaurant page as the return target; their selection
// stays in the flow so it survives the round trip.
func (h *BookingHandler) Submit(c echo.Context) error {
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctrl, slug, err := h.flow(c)
	if err != nil {
		return err
	}

	sess := middleware.CurrentSession(c)
	client := h.Sessions.Client(c.Request().Context(), sess)

	res, err := ctrl.Submit(c.Request().Context(), client, sess != nil, req.Notes)
	if err != nil {
		return h.submitError(c, ctrl, slug, err)
	}

	h.Flows.Drop(browserID(c), slug)
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation": res,
		"view":        ctrl.Snapshot(),
	})
}

func (h *BookingHandler) submitError(c echo.Context, ctrl *booking.Controller, slug string, err error) error {
	switch {
	case errors.Is(err, booking.ErrLoginRequired):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error":     err.Error(),
			"login_url": middleware.LoginURL("/restaurants/" + slug),
			"view":      ctrl.Snapshot(),
		})
	case errors.Is(err, booking.ErrIncompleteSelection),
		errors.Is(err, booking.ErrSlotUnavailable):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": err.Error(),
			"view":  ctrl.Snapshot(),
		})
	case errors.Is(err, booking.ErrSubmitInFlight),
		errors.Is(err, booking.ErrAlreadySubmitted):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": err.Error(),
			"view":  ctrl.Snapshot(),
		})
	case errors.Is(err, api.ErrAuthExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error":     "session expired",
			"login_url": middleware.LoginURL("/restaurants/" + slug),
			"view":      ctrl.Snapshot(),
		})
	}

	// Rejected by the reservation API: surface the joined field messages
	// in the panel and keep the flow open for another attempt.
	var ae *api.Error
	if errors.As(err, &ae) {
		status := ae.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		body := echo.Map{"error": ae.Error(), "view": ctrl.Snapshot()}
		if len(ae.Fields) > 0 {
			body["fields"] = ae.Fields
		}
		return c.JSON(status, body)
	}
	h.Log.Warn("reservation create failed", zap.String("slug", slug), zap.Error(err))
	return c.JSON(http.StatusBadGateway, echo.Map{
		"error": booking.MsgSubmitError,
		"view":  ctrl.Snapshot(),
	})
}
