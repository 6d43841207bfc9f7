package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bronla/gateway/internal/model"
)

// Availability queries bookable slots for one restaurant, date and party
// size. The guest count is always echoed so the server can exclude places
// with insufficient capacity; the gateway never filters by capacity.
func (c *Client) Availability(ctx context.Context, slug, date string, guestCount int) (*model.AvailabilityResponse, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("guest_count", strconv.Itoa(guestCount))
	var out model.AvailabilityResponse
	path := fmt.Sprintf("/reservations/availability/%s/", url.PathEscape(slug))
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateReservation submits a booking. Validation failures come back as
// *Error with the field map intact.
func (c *Client) CreateReservation(ctx context.Context, req model.ReservationCreate) (*model.Reservation, error) {
	var out model.Reservation
	if err := c.do(ctx, http.MethodPost, "/reservations/", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyReservations lists the caller's own bookings, newest first.
func (c *Client) MyReservations(ctx context.Context) (*model.Paginated[model.Reservation], error) {
	var out model.Paginated[model.Reservation]
	if err := c.do(ctx, http.MethodGet, "/reservations/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reservation fetches one booking by id; the API scopes access to the
// booker, the restaurant owner and admins.
func (c *Client) Reservation(ctx context.Context, id int64) (*model.Reservation, error) {
	var out model.Reservation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reservations/%d/", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelReservation asks the server to cancel. Behavior for an already
// canceled booking is server-defined; the gateway just forwards.
func (c *Client) CancelReservation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/reservations/%d/", id), nil, nil, nil)
}

// ReservationListFilter narrows owner and admin reservation listings.
type ReservationListFilter struct {
	Date       string
	Status     string
	Restaurant int64
}

func (f ReservationListFilter) query() url.Values {
	q := url.Values{}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Restaurant != 0 {
		q.Set("restaurant", strconv.FormatInt(f.Restaurant, 10))
	}
	return q
}

// OwnerReservations lists the inbox of the caller's restaurant.
func (c *Client) OwnerReservations(ctx context.Context, f ReservationListFilter) (*model.Paginated[model.Reservation], error) {
	var out model.Paginated[model.Reservation]
	if err := c.do(ctx, http.MethodGet, "/reservations/owner/", f.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReservationStatus moves a reservation through its lifecycle on
// behalf of the owner (confirm, cancel, complete, no_show).
func (c *Client) UpdateReservationStatus(ctx context.Context, id int64, status string) (*model.Reservation, error) {
	var out model.Reservation
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/reservations/owner/%d/", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OwnerStats returns the owner's dashboard counters.
func (c *Client) OwnerStats(ctx context.Context) (*model.OwnerStats, error) {
	var out model.OwnerStats
	if err := c.do(ctx, http.MethodGet, "/reservations/owner/stats/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
