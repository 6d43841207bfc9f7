package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/browse"
	"github.com/bronla/gateway/internal/middleware"
	"github.com/bronla/gateway/internal/session"
)

// AdminHandler is the city administration console: platform stats plus
// user, restaurant and reservation management.
type AdminHandler struct {
	Sessions *session.Manager
	Browse   *browse.Service
}

func NewAdminHandler(m *session.Manager, svc *browse.Service) *AdminHandler {
	return &AdminHandler{Sessions: m, Browse: svc}
}

func (h *AdminHandler) client(c echo.Context) *api.Client {
	return h.Sessions.Client(c.Request().Context(), middleware.CurrentSession(c))
}

func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.client(c).AdminStats(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ----- users -----

func (h *AdminHandler) Users(c echo.Context) error {
	page, err := h.client(c).AdminUsers(c.Request().Context(), c.QueryParam("search"), c.QueryParam("role"))
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) User(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid user id")
	}
	user, err := h.client(c).AdminUser(c.Request().Context(), id)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) CreateUser(c echo.Context) error {
	body, err := bindPatch(c)
	if err != nil {
		return err
	}
	user, err := h.client(c).AdminCreateUser(c.Request().Context(), body)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid user id")
	}
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	user, err := h.client(c).AdminUpdateUser(c.Request().Context(), id, patch)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid user id")
	}
	if err := h.client(c).AdminDeleteUser(c.Request().Context(), id); err != nil {
		return upstreamError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- restaurants -----

func (h *AdminHandler) Restaurants(c echo.Context) error {
	var isActive *bool
	if v := c.QueryParam("is_active"); v != "" {
		b := v == "true"
		isActive = &b
	}
	page, err := h.client(c).AdminRestaurants(c.Request().Context(), c.QueryParam("search"), isActive)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) Restaurant(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	r, err := h.client(c).AdminRestaurant(c.Request().Context(), id)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *AdminHandler) CreateRestaurant(c echo.Context) error {
	body, err := bindPatch(c)
	if err != nil {
		return err
	}
	r, err := h.client(c).AdminCreateRestaurant(c.Request().Context(), body)
	if err != nil {
		return upstreamError(c, err)
	}
	h.Browse.Invalidate()
	return c.JSON(http.StatusCreated, r)
}

func (h *AdminHandler) UpdateRestaurant(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	r, err := h.client(c).AdminUpdateRestaurant(c.Request().Context(), id, patch)
	if err != nil {
		return upstreamError(c, err)
	}
	h.Browse.Invalidate()
	return c.JSON(http.StatusOK, r)
}

func (h *AdminHandler) DeleteRestaurant(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	if err := h.client(c).AdminDeleteRestaurant(c.Request().Context(), id); err != nil {
		return upstreamError(c, err)
	}
	h.Browse.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

// ----- reservations -----

func (h *AdminHandler) Reservations(c echo.Context) error {
	restaurant, _ := strconv.ParseInt(c.QueryParam("restaurant"), 10, 64)
	f := api.ReservationListFilter{
		Date:       c.QueryParam("date"),
		Status:     c.QueryParam("status"),
		Restaurant: restaurant,
	}
	page, err := h.client(c).AdminReservations(c.Request().Context(), f)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
