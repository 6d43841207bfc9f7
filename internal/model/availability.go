package model

// TimeSlot is a single bookable time point for one place on one date.
// Availability is computed server-side from working hours, slot duration
// and existing reservations; the gateway treats it as ground truth and
// never recomputes it.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// PlaceAvailability is a place together with its ordered slots for the
// queried date. The server already excludes places whose capacity cannot
// seat the requested party, so no capacity filtering happens here.
type PlaceAvailability struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Capacity int        `json:"capacity"`
	Slots    []TimeSlot `json:"slots"`
}

// AvailabilityResponse answers one (restaurant, date, guest_count) query.
// IsClosed short-circuits all slot display regardless of Places content.
type AvailabilityResponse struct {
	Date     string              `json:"date"`
	IsClosed bool                `json:"is_closed"`
	Places   []PlaceAvailability `json:"places"`
}

// Slot looks up a slot by place and time. It returns false when the place
// or the time is absent from the response.
func (a *AvailabilityResponse) Slot(placeID int64, timeStr string) (TimeSlot, bool) {
	for i := range a.Places {
		if a.Places[i].ID != placeID {
			continue
		}
		for _, s := range a.Places[i].Slots {
			if s.Time == timeStr {
				return s, true
			}
		}
	}
	return TimeSlot{}, false
}
