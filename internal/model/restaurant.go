package model

// Feature is a filterable amenity tag (wifi, parking, live music, ...).
type Feature struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// WorkingHours describes one weekday row of a restaurant's schedule.
type WorkingHours struct {
	DayOfWeek int    `json:"day_of_week"`
	DayName   string `json:"day_name"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsClosed  bool   `json:"is_closed"`
}

// RestaurantImage is one gallery entry; exactly one image per restaurant
// carries IsMain.
type RestaurantImage struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	IsMain bool   `json:"is_main"`
	Order  int    `json:"order"`
}

// Restaurant is a venue as exposed by the reservation API. Latitude and
// longitude arrive as decimal strings, which is how the API serializes
// them; map consumers parse on their side. SlotDuration and
// MinBookingHours describe the booking policy the server applies when it
// computes availability; the gateway never derives slots from them.
type Restaurant struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Description     string            `json:"description,omitempty"`
	Type            string            `json:"type"`
	TypeDisplay     string            `json:"type_display"`
	Address         string            `json:"address"`
	Latitude        string            `json:"latitude"`
	Longitude       string            `json:"longitude"`
	Phone           string            `json:"phone,omitempty"`
	Instagram       string            `json:"instagram,omitempty"`
	Telegram        string            `json:"telegram,omitempty"`
	MinOrderAmount  *int64            `json:"min_order_amount,omitempty"`
	AverageCheck    *int64            `json:"average_check,omitempty"`
	Features        []Feature         `json:"features,omitempty"`
	WorkingHours    []WorkingHours    `json:"working_hours,omitempty"`
	Images          []RestaurantImage `json:"images,omitempty"`
	ReservationMode string            `json:"reservation_mode,omitempty"`
	IsOpen          bool              `json:"is_open"`
	IsActive        *bool             `json:"is_active,omitempty"`
	IsVerified      *bool             `json:"is_verified,omitempty"`
	Rating          *float64          `json:"rating"`
	ReviewCount     int               `json:"review_count,omitempty"`
	MainImage       string            `json:"main_image,omitempty"`
	SlotDuration    int               `json:"slot_duration,omitempty"`
	MinBookingHours int               `json:"min_booking_hours,omitempty"`
}

// Reservation modes: "auto" confirms bookings immediately, "manual" leaves
// them pending until the owner acts.
const (
	ReservationModeAuto   = "auto"
	ReservationModeManual = "manual"
)

// Place is a bookable seating unit inside a restaurant (table, booth, VIP
// room, terrace). A reservation references at most one place; restaurant
// level bookings reference none.
type Place struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	TypeDisplay   string `json:"type_display,omitempty"`
	Capacity      int    `json:"capacity"`
	MinCapacity   int    `json:"min_capacity,omitempty"`
	DepositAmount *int64 `json:"deposit_amount,omitempty"`
	Floor         int    `json:"floor,omitempty"`
	Description   string `json:"description,omitempty"`
	IsActive      bool   `json:"is_active"`
}

// MenuCategory groups menu items; Order controls display position.
type MenuCategory struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Order       int        `json:"order,omitempty"`
	IsActive    bool       `json:"is_active"`
	Items       []MenuItem `json:"items,omitempty"`
}

// MenuItem is one dish or drink in a category.
type MenuItem struct {
	ID          int64  `json:"id"`
	Category    int64  `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	IsAvailable bool   `json:"is_available"`
	Order       int    `json:"order,omitempty"`
}
