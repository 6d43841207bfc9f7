package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/browse"
)

// BrowseHandler serves the public discovery surface: restaurant lists,
// detail pages, menus and map pins. Everything here is anonymous.
type BrowseHandler struct {
	Browse *browse.Service
	API    *api.Client
}

func NewBrowseHandler(svc *browse.Service, client *api.Client) *BrowseHandler {
	return &BrowseHandler{Browse: svc, API: client}
}

func (h *BrowseHandler) List(c echo.Context) error {
	f := api.RestaurantFilter{
		Type:   c.QueryParam("type"),
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("feature"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return badRequest(c, "feature must be a numeric id")
		}
		f.Feature = id
	}
	page, err := h.Browse.List(c.Request().Context(), f)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *BrowseHandler) Detail(c echo.Context) error {
	r, err := h.API.Restaurant(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *BrowseHandler) Places(c echo.Context) error {
	places, err := h.API.Places(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, places)
}

func (h *BrowseHandler) Menu(c echo.Context) error {
	menu, err := h.API.Menu(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, menu)
}

func (h *BrowseHandler) Features(c echo.Context) error {
	features, err := h.Browse.Features(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, features)
}

// MapPins serves the cached marker set for the city map.
func (h *BrowseHandler) MapPins(c echo.Context) error {
	pins, err := h.Browse.Pins(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, pins)
}
