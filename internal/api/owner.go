package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bronla/gateway/internal/model"
)

// Owner console endpoints. All of them require an owner session; the API
// resolves the restaurant from the authenticated user, so no restaurant id
// travels in these paths.

// MyRestaurant fetches the venue owned by the caller.
func (c *Client) MyRestaurant(ctx context.Context) (*model.Restaurant, error) {
	var out model.Restaurant
	if err := c.do(ctx, http.MethodGet, "/restaurants/owner/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMyRestaurant patches venue settings. patch is a partial document
// whose field-level validation belongs to the API.
func (c *Client) UpdateMyRestaurant(ctx context.Context, patch map[string]any) (*model.Restaurant, error) {
	var out model.Restaurant
	if err := c.do(ctx, http.MethodPatch, "/restaurants/owner/", nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OwnerPlaces lists the caller's seating units, inactive ones included.
func (c *Client) OwnerPlaces(ctx context.Context) ([]model.Place, error) {
	var out []model.Place
	if err := c.do(ctx, http.MethodGet, "/restaurants/owner/places/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePlace adds a seating unit.
func (c *Client) CreatePlace(ctx context.Context, place map[string]any) (*model.Place, error) {
	var out model.Place
	if err := c.do(ctx, http.MethodPost, "/restaurants/owner/places/", nil, place, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePlace patches a seating unit.
func (c *Client) UpdatePlace(ctx context.Context, id int64, patch map[string]any) (*model.Place, error) {
	var out model.Place
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/restaurants/owner/places/%d/", id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePlace removes a seating unit.
func (c *Client) DeletePlace(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/restaurants/owner/places/%d/", id), nil, nil, nil)
}

// WorkingHours returns the weekly schedule rows.
func (c *Client) WorkingHours(ctx context.Context) ([]model.WorkingHours, error) {
	var out []model.WorkingHours
	if err := c.do(ctx, http.MethodGet, "/restaurants/owner/hours/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateWorkingHours replaces the weekly schedule in one call.
func (c *Client) UpdateWorkingHours(ctx context.Context, rows []model.WorkingHours) ([]model.WorkingHours, error) {
	var out []model.WorkingHours
	if err := c.do(ctx, http.MethodPost, "/restaurants/owner/hours/bulk_update/", nil, rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadImage streams a gallery image to the API.
func (c *Client) UploadImage(ctx context.Context, fileName string, file io.Reader, isMain bool) (*model.RestaurantImage, error) {
	fields := map[string]string{"is_main": strconv.FormatBool(isMain)}
	var out model.RestaurantImage
	if err := c.doMultipart(ctx, http.MethodPost, "/restaurants/owner/images/", fields, "image", fileName, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteImage removes a gallery image.
func (c *Client) DeleteImage(ctx context.Context, imageID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/restaurants/owner/images/%d/", imageID), nil, nil, nil)
}

// SetMainImage marks one gallery image as the card/main image.
func (c *Client) SetMainImage(ctx context.Context, imageID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/restaurants/owner/images/%d/set_main/", imageID), nil, nil, nil)
}

// MenuCategories lists the owner's menu categories.
func (c *Client) MenuCategories(ctx context.Context) ([]model.MenuCategory, error) {
	var out []model.MenuCategory
	if err := c.do(ctx, http.MethodGet, "/restaurants/owner/menu-categories/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMenuCategory adds a category.
func (c *Client) CreateMenuCategory(ctx context.Context, cat map[string]any) (*model.MenuCategory, error) {
	var out model.MenuCategory
	if err := c.do(ctx, http.MethodPost, "/restaurants/owner/menu-categories/", nil, cat, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMenuCategory patches a category.
func (c *Client) UpdateMenuCategory(ctx context.Context, id int64, patch map[string]any) (*model.MenuCategory, error) {
	var out model.MenuCategory
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/restaurants/owner/menu-categories/%d/", id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMenuCategory removes a category and its items.
func (c *Client) DeleteMenuCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/restaurants/owner/menu-categories/%d/", id), nil, nil, nil)
}

// MenuItems lists items, optionally narrowed to one category.
func (c *Client) MenuItems(ctx context.Context, categoryID int64) ([]model.MenuItem, error) {
	q := url.Values{}
	if categoryID != 0 {
		q.Set("category", strconv.FormatInt(categoryID, 10))
	}
	var out []model.MenuItem
	if err := c.do(ctx, http.MethodGet, "/restaurants/owner/menu-items/", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMenuItem adds a dish to a category.
func (c *Client) CreateMenuItem(ctx context.Context, item map[string]any) (*model.MenuItem, error) {
	var out model.MenuItem
	if err := c.do(ctx, http.MethodPost, "/restaurants/owner/menu-items/", nil, item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMenuItem patches a dish.
func (c *Client) UpdateMenuItem(ctx context.Context, id int64, patch map[string]any) (*model.MenuItem, error) {
	var out model.MenuItem
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/restaurants/owner/menu-items/%d/", id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMenuItem removes a dish.
func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/restaurants/owner/menu-items/%d/", id), nil, nil, nil)
}

// UploadMenuItemImage attaches a photo to a dish via multipart PATCH.
func (c *Client) UploadMenuItemImage(ctx context.Context, id int64, fileName string, file io.Reader) (*model.MenuItem, error) {
	var out model.MenuItem
	path := fmt.Sprintf("/restaurants/owner/menu-items/%d/", id)
	if err := c.doMultipart(ctx, http.MethodPatch, path, nil, "image", fileName, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
