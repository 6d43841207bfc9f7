package model

// Reservation statuses. A reservation is never deleted; cancellation is a
// status transition performed by the booking user, every other transition
// belongs to the owner or an admin.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

// Reservation is a booking record as returned by the reservation API.
// Place is nil for restaurant-level bookings. UserName and UserPhone are
// present only in owner and admin listings.
type Reservation struct {
	ID             int64  `json:"id"`
	Restaurant     int64  `json:"restaurant"`
	RestaurantName string `json:"restaurant_name,omitempty"`
	Place          *int64 `json:"place"`
	PlaceName      string `json:"place_name,omitempty"`
	Date           string `json:"date"`
	TimeFrom       string `json:"time_from"`
	TimeTo         string `json:"time_to,omitempty"`
	GuestCount     int    `json:"guest_count"`
	Notes          string `json:"notes,omitempty"`
	Status         string `json:"status"`
	StatusDisplay  string `json:"status_display,omitempty"`
	CreatedAt      string `json:"created_at"`
	UserName       string `json:"user_name,omitempty"`
	UserPhone      string `json:"user_phone,omitempty"`
}

// CanCancel reports whether the booking user may still cancel. Completed,
// already canceled and no-show reservations are out of reach.
func (r *Reservation) CanCancel() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// ReservationCreate is the body of POST /reservations/. Place is optional;
// the remaining fields are required by the API and validated again there.
type ReservationCreate struct {
	Restaurant int64  `json:"restaurant"`
	Place      *int64 `json:"place,omitempty"`
	Date       string `json:"date"`
	TimeFrom   string `json:"time_from"`
	GuestCount int    `json:"guest_count"`
	Notes      string `json:"notes,omitempty"`
}

// OwnerStats is the owner dashboard summary.
type OwnerStats struct {
	Today struct {
		Total     int `json:"total"`
		Confirmed int `json:"confirmed"`
		Pending   int `json:"pending"`
	} `json:"today"`
	Month struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
		Canceled  int `json:"canceled"`
		NoShow    int `json:"no_show"`
	} `json:"month"`
}

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	Users struct {
		Total  int `json:"total"`
		Owners int `json:"owners"`
		Admins int `json:"admins"`
	} `json:"users"`
	Restaurants struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	} `json:"restaurants"`
	Reservations struct {
		Total   int `json:"total"`
		Today   int `json:"today"`
		Pending int `json:"pending"`
	} `json:"reservations"`
}

// Paginated is the API's standard list envelope.
type Paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
