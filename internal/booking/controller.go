package booking

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/model"
)

// State is the position of a booking flow in its lifecycle.
type State string

const (
	StateNoDate     State = "no_date"
	StateDateChosen State = "date_chosen"
	StateSlotChosen State = "slot_chosen"
	StateSubmitted  State = "submitted"
)

// Selection is the user's chosen (place, time) pair. The model is single
// selection: picking another slot replaces it, picking the same slot is a
// no-op.
type Selection struct {
	PlaceID int64  `json:"place"`
	Time    string `json:"time"`
}

// Controller keeps the displayable slot set consistent with the user's
// current availability query for one restaurant. Requests are not queued:
// a new (date, guest count) supersedes in-flight work, and a stale
// response is recognized by comparing its originating key against the
// current one before applying. Recency of the logical key wins over
// arrival order.
type Controller struct {
	slug         string
	restaurantID int64
	fetch        Fetcher
	log          *zap.Logger

	mu         sync.Mutex
	key        QueryKey
	loading    bool
	closed     bool
	errMsg     string
	avail      *model.AvailabilityResponse
	sel        *Selection
	submitting bool
	submitted  bool
}

// NewController builds a controller for one restaurant flow.
func NewController(slug string, restaurantID int64, fetch Fetcher, log *zap.Logger) *Controller {
	return &Controller{slug: slug, restaurantID: restaurantID, fetch: fetch, log: log}
}

// SetQuery records a new (date, guest count) pair. Changing either part
// invalidates the slot selection: stale place/time must never survive into
// a new availability context. It returns true when a fetch should follow,
// which is the case when the key changed, and also when the same key is
// re-sent after a failed load so the user can retry without toggling the
// date away and back.
func (c *Controller) SetQuery(key QueryKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted {
		return false
	}
	if key == c.key {
		return key.Valid() && c.errMsg != ""
	}
	c.key = key
	c.sel = nil
	c.closed = false
	c.errMsg = ""
	if !key.Valid() {
		// No fetch will follow, so an in-flight load for the old key must
		// not leave the panel stuck in loading.
		c.avail = nil
		c.loading = false
		return false
	}
	return true
}

// Load fetches availability for a snapshot of the current key and applies
// the result only if that key is still current when the response arrives.
// A response for a superseded key is discarded silently: that race is
// expected, not an error. Invalid keys never issue a network call.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	key := c.key
	if !key.Valid() || c.submitted {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	resp, err := c.fetch.Availability(ctx, c.slug, key.Date, key.GuestCount)

	c.mu.Lock()
	defer c.mu.Unlock()
	if key != c.key {
		if c.log != nil {
			c.log.Debug("discarding stale availability response",
				zap.String("slug", c.slug), zap.String("stale_date", key.Date))
		}
		return
	}
	c.loading = false
	if err != nil {
		c.avail = nil
		c.closed = false
		c.errMsg = MsgLoadFailed
		if c.log != nil {
			c.log.Warn("availability fetch failed", zap.String("slug", c.slug), zap.Error(err))
		}
		return
	}
	if resp.IsClosed {
		// Closed short-circuits slot display regardless of returned places.
		c.avail = nil
		c.closed = true
		c.sel = nil
		return
	}
	c.avail = resp
	c.closed = false
	c.revalidateSelection()
}

// revalidateSelection drops the selection unless the chosen slot still
// exists and is available in the freshly applied response. Callers hold
// the lock.
func (c *Controller) revalidateSelection() {
	if c.sel == nil || c.avail == nil {
		return
	}
	slot, ok := c.avail.Slot(c.sel.PlaceID, c.sel.Time)
	if !ok || !slot.Available {
		c.sel = nil
	}
}

// Select records the user's slot choice. Only a slot present and available
// in the current snapshot is selectable; selecting the already chosen slot
// is idempotent, selecting a different one replaces it.
func (c *Controller) Select(placeID int64, timeStr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted {
		return ErrAlreadySubmitted
	}
	if c.avail == nil {
		return ErrSlotUnavailable
	}
	slot, ok := c.avail.Slot(placeID, timeStr)
	if !ok || !slot.Available {
		return ErrSlotUnavailable
	}
	if c.sel != nil && c.sel.PlaceID == placeID && c.sel.Time == timeStr {
		return nil
	}
	c.sel = &Selection{PlaceID: placeID, Time: timeStr}
	return nil
}

// Submit attempts to create the reservation through the session-bound
// creator. authed gates the call: anonymous submissions never reach the
// network and surface as ErrLoginRequired so the handler can redirect.
// The submitting flag is cleared on every exit path.
func (c *Controller) Submit(ctx context.Context, create Creator, authed bool, notes string) (*model.Reservation, error) {
	if !authed {
		return nil, ErrLoginRequired
	}

	c.mu.Lock()
	if c.submitted {
		c.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if c.loading || c.key.Date == "" || c.sel == nil {
		c.mu.Unlock()
		return nil, ErrIncompleteSelection
	}
	req := model.ReservationCreate{
		Restaurant: c.restaurantID,
		Date:       c.key.Date,
		TimeFrom:   c.sel.Time,
		GuestCount: c.key.GuestCount,
		Notes:      notes,
	}
	if c.sel.PlaceID != 0 {
		place := c.sel.PlaceID
		req.Place = &place
	}
	c.submitting = true
	c.mu.Unlock()

	res, err := create.CreateReservation(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		// Stay in SlotChosen; resubmission is allowed.
		return nil, err
	}
	c.submitted = true
	return res, nil
}

// View is the controller state rendered for the browser on every booking
// call.
type View struct {
	State      State                     `json:"state"`
	Date       string                    `json:"date,omitempty"`
	GuestCount int                       `json:"guest_count,omitempty"`
	Loading    bool                      `json:"loading"`
	Closed     bool                      `json:"closed"`
	Error      string                    `json:"error,omitempty"`
	Places     []model.PlaceAvailability `json:"places"`
	Selection  *Selection                `json:"selection,omitempty"`
}

// Snapshot returns the current view under the lock.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		Date:       c.key.Date,
		GuestCount: c.key.GuestCount,
		Loading:    c.loading,
		Closed:     c.closed,
		Error:      c.errMsg,
		Places:     []model.PlaceAvailability{},
	}
	if c.closed && v.Error == "" {
		v.Error = MsgClosed
	}
	if c.avail != nil && !c.closed {
		v.Places = c.avail.Places
	}
	if c.sel != nil {
		sel := *c.sel
		v.Selection = &sel
	}
	switch {
	case c.submitted:
		v.State = StateSubmitted
	case c.sel != nil:
		v.State = StateSlotChosen
	case c.key.Date != "":
		v.State = StateDateChosen
	default:
		v.State = StateNoDate
	}
	return v
}
