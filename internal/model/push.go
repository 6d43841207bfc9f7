package model

// PushSubscription is the browser subscription forwarded to the
// reservation API, which stores it and sends Web Push messages when new
// reservations arrive for an owner's restaurant.
type PushSubscription struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// ReservationEvent is the broker message published by the reservation API
// when a reservation is created. The gateway consumes it to feed the owner
// notification stream; it intentionally carries enough context to render a
// notification without another API round trip.
type ReservationEvent struct {
	ReservationID  int64  `json:"reservation_id"`
	RestaurantID   int64  `json:"restaurant_id"`
	RestaurantSlug string `json:"restaurant_slug"`
	PlaceName      string `json:"place_name,omitempty"`
	Date           string `json:"date"`
	TimeFrom       string `json:"time_from"`
	GuestCount     int    `json:"guest_count"`
	UserName       string `json:"user_name"`
	UserPhone      string `json:"user_phone,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}
