package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/browse"
	"github.com/bronla/gateway/internal/middleware"
	"github.com/bronla/gateway/internal/model"
	"github.com/bronla/gateway/internal/session"
)

// OwnerHandler is the restaurant owner console. Mutations that change
// what diners see invalidate the browse snapshot so the map and the
// cached collection catch up quickly.
type OwnerHandler struct {
	Sessions *session.Manager
	Browse   *browse.Service
}

func NewOwnerHandler(m *session.Manager, svc *browse.Service) *OwnerHandler {
	return &OwnerHandler{Sessions: m, Browse: svc}
}

func (h *OwnerHandler) client(c echo.Context) *api.Client {
	return h.Sessions.Client(c.Request().Context(), middleware.CurrentSession(c))
}

// bindPatch accepts an arbitrary JSON object and forwards it unchanged.
// The reservation API owns the field-level validation; the gateway only
// relays its error map.
func bindPatch(c echo.Context) (map[string]any, error) {
	patch := map[string]any{}
	if err := c.Bind(&patch); err != nil {
		return nil, badRequest(c, "invalid body")
	}
	return patch, nil
}

// ----- restaurant -----

func (h *OwnerHandler) Restaurant(c echo.Context) error {
	r, err := h.client(c).MyRestaurant(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *OwnerHandler) UpdateRestaurant(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	r, err := h.client(c).UpdateMyRestaurant(c.Request().Context(), patch)
	if err != nil {
		return upstreamError(c, err)
	}
	h.Browse.Invalidate()
	return c.JSON(http.StatusOK, r)
}

// ----- places -----

func (h *OwnerHandler) Places(c echo.Context) error {
	places, err := h.client(c).OwnerPlaces(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, places)
}

func (h *OwnerHandler) CreatePlace(c echo.Context) error {
	body, err := bindPatch(c)
	if err != nil {
		return err
	}
	place, err := h.client(c).CreatePlace(c.Request().Context(), body)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusCreated, place)
}

func (h *OwnerHandler) UpdatePlace(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid place id")
	}
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	place, err := h.client(c).UpdatePlace(c.Request().Context(), id, patch)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, place)
}

func (h *OwnerHandler) DeletePlace(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid place id")
	}
	if err := h.client(c).DeletePlace(c.Request().Context(), id); err != nil {
		return upstreamError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- working hours -----

func (h *OwnerHandler) WorkingHours(c echo.Context) error {
	rows, err := h.client(c).WorkingHours(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// UpdateWorkingHours replaces the whole week in one call, matching the
// weekly grid the console edits.
func (h *OwnerHandler) UpdateWorkingHours(c echo.Context) error {
	var rows []model.WorkingHours
	if err := c.Bind(&rows); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.client(c).UpdateWorkingHours(c.Request().Context(), rows)
	if err != nil {
		return upstreamError(c, err)
	}
	h.Browse.Invalidate()
	return c.JSON(http.StatusOK, out)
}

// ----- images -----

func (h *OwnerHandler) UploadImage(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file required")
	}
	src, err := fh.Open()
	if err != nil {
		return badRequest(c, "unreadable image file")
	}
	defer src.Close()

	isMain := c.FormValue("is_main") == "true"
	img, err := h.client(c).UploadImage(c.Request().Context(), fh.Filename, src, isMain)
	if err != nil {
		return upstreamError(c, err)
	}
	h.Browse.Invalidate()
	return c.JSON(http.StatusCreated, img)
}

func (h *OwnerHandler) DeleteImage(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid image id")
	}
	if err := h.client(c).DeleteImage(c.Request().Context(), id); err != nil {
		return upstreamError(c, err)
	}
	h.Browse.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

func (h *OwnerHandler) SetMainImage(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid image id")
	}
	if err := h.client(c).SetMainImage(c.Request().Context(), id); err != nil {
		return upstreamError(c, err)
	}
	h.Browse.Invalidate()
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// ----- menu -----

func (h *OwnerHandler) MenuCategories(c echo.Context) error {
	cats, err := h.client(c).MenuCategories(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *OwnerHandler) CreateMenuCategory(c echo.Context) error {
	body, err := bindPatch(c)
	if err != nil {
		return err
	}
	cat, err := h.client(c).CreateMenuCategory(c.Request().Context(), body)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *OwnerHandler) UpdateMenuCategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid category id")
	}
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	cat, err := h.client(c).UpdateMenuCategory(c.Request().Context(), id, patch)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *OwnerHandler) DeleteMenuCategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid category id")
	}
	if err := h.client(c).DeleteMenuCategory(c.Request().Context(), id); err != nil {
		return upstreamError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OwnerHandler) MenuItems(c echo.Context) error {
	categoryID, _ := strconv.ParseInt(c.QueryParam("category"), 10, 64)
	items, err := h.client(c).MenuItems(c.Request().Context(), categoryID)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OwnerHandler) CreateMenuItem(c echo.Context) error {
	body, err := bindPatch(c)
	if err != nil {
		return err
	}
	item, err := h.client(c).CreateMenuItem(c.Request().Context(), body)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *OwnerHandler) UpdateMenuItem(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid item id")
	}
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	item, err := h.client(c).UpdateMenuItem(c.Request().Context(), id, patch)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *OwnerHandler) DeleteMenuItem(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid item id")
	}
	if err := h.client(c).DeleteMenuItem(c.Request().Context(), id); err != nil {
		return upstreamError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OwnerHandler) UploadMenuItemImage(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid item id")
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file required")
	}
	src, err := fh.Open()
	if err != nil {
		return badRequest(c, "unreadable image file")
	}
	defer src.Close()

	item, err := h.client(c).UploadMenuItemImage(c.Request().Context(), id, fh.Filename, src)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// ----- reservations -----

func (h *OwnerHandler) Reservations(c echo.Context) error {
	f := api.ReservationListFilter{
		Date:   c.QueryParam("date"),
		Status: c.QueryParam("status"),
	}
	page, err := h.client(c).OwnerReservations(c.Request().Context(), f)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

type statusReq struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed canceled completed no_show"`
}

func (h *OwnerHandler) UpdateReservationStatus(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	res, err := h.client(c).UpdateReservationStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *OwnerHandler) Stats(c echo.Context) error {
	stats, err := h.client(c).OwnerStats(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
