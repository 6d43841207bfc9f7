package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bronla/gateway/internal/model"
)

// Admin oversight endpoints. The API rejects non-admin tokens on all of
// these; the gateway additionally gates them behind the admin role.

// AdminStats returns the platform-wide dashboard counters.
func (c *Client) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var out model.AdminStats
	if err := c.do(ctx, http.MethodGet, "/admin/stats/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUsers lists accounts, optionally filtered by search text and role.
func (c *Client) AdminUsers(ctx context.Context, search, role string) (*model.Paginated[model.User], error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if role != "" {
		q.Set("role", role)
	}
	var out model.Paginated[model.User]
	if err := c.do(ctx, http.MethodGet, "/admin/users/", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUser fetches one account.
func (c *Client) AdminUser(ctx context.Context, id int64) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/users/%d/", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminCreateUser provisions an account with an explicit role.
func (c *Client) AdminCreateUser(ctx context.Context, user map[string]any) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPost, "/admin/users/", nil, user, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUpdateUser patches an account.
func (c *Client) AdminUpdateUser(ctx context.Context, id int64, patch map[string]any) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/users/%d/", id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminDeleteUser removes an account.
func (c *Client) AdminDeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d/", id), nil, nil, nil)
}

// AdminRestaurants lists venues with admin-only fields.
func (c *Client) AdminRestaurants(ctx context.Context, search string, isActive *bool) (*model.Paginated[model.Restaurant], error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if isActive != nil {
		q.Set("is_active", strconv.FormatBool(*isActive))
	}
	var out model.Paginated[model.Restaurant]
	if err := c.do(ctx, http.MethodGet, "/admin/restaurants/", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminRestaurant fetches one venue.
func (c *Client) AdminRestaurant(ctx context.Context, id int64) (*model.Restaurant, error) {
	var out model.Restaurant
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/restaurants/%d/", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminCreateRestaurant provisions a venue for an owner account.
func (c *Client) AdminCreateRestaurant(ctx context.Context, restaurant map[string]any) (*model.Restaurant, error) {
	var out model.Restaurant
	if err := c.do(ctx, http.MethodPost, "/admin/restaurants/", nil, restaurant, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUpdateRestaurant patches a venue.
func (c *Client) AdminUpdateRestaurant(ctx context.Context, id int64, patch map[string]any) (*model.Restaurant, error) {
	var out model.Restaurant
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/restaurants/%d/", id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminDeleteRestaurant removes a venue.
func (c *Client) AdminDeleteRestaurant(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/restaurants/%d/", id), nil, nil, nil)
}

// AdminReservations lists bookings across all venues.
func (c *Client) AdminReservations(ctx context.Context, f ReservationListFilter) (*model.Paginated[model.Reservation], error) {
	var out model.Paginated[model.Reservation]
	if err := c.do(ctx, http.MethodGet, "/admin/reservations/", f.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
