// Package booking implements the client side of the reservation flow: the
// availability query controller, the slot selection state machine and the
// submission rules. Availability itself is computed by the reservation
// API; this package only keeps what the user sees consistent with what
// the server last said for the user's current (date, guest count) query.
package booking

import (
	"context"
	"errors"

	"github.com/bronla/gateway/internal/model"
)

// User-facing messages for the booking panel.
const (
	MsgLoadFailed  = "failed to load times"
	MsgClosed      = "restaurant closed this day"
	MsgIncomplete  = "choose date and time"
	MsgSubmitError = "failed to create the reservation"
)

var (
	// ErrLoginRequired means the submission was blocked before any network
	// call because the browser has no session; the handler answers with a
	// login redirect carrying the originating restaurant page.
	ErrLoginRequired = errors.New("login required")

	// ErrIncompleteSelection means date or time is missing; rejected
	// locally, no create call is made.
	ErrIncompleteSelection = errors.New(MsgIncomplete)

	// ErrSlotUnavailable means the tapped slot is absent or marked
	// unavailable in the current availability snapshot.
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrSubmitInFlight guards against parallel double-submit; the
	// triggering control is disabled browser-side, this is the backstop.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrAlreadySubmitted is returned once the flow reached its terminal
	// state; a new flow must be started for another booking.
	ErrAlreadySubmitted = errors.New("reservation already submitted")
)

// QueryKey is the logical key of one availability query: the (date, guest
// count) pair that decides which fetched response is authoritative.
type QueryKey struct {
	Date       string
	GuestCount int
}

// Valid reports whether the key may trigger a fetch at all. An empty date
// or a party below one never reaches the network.
func (k QueryKey) Valid() bool {
	return k.Date != "" && k.GuestCount >= 1
}

// Fetcher is the availability side of the reservation API client.
type Fetcher interface {
	Availability(ctx context.Context, slug, date string, guestCount int) (*model.AvailabilityResponse, error)
}

// Creator is the reservation-create side of the API client, bound to the
// submitting user's session.
type Creator interface {
	CreateReservation(ctx context.Context, req model.ReservationCreate) (*model.Reservation, error)
}
