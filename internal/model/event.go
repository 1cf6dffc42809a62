package model

// CalendarEvent is one entry of the expiry calendar. The event
// collection is a pure projection of the product collection: one event
// per dated product, rebuilt in full on every catalogue mutation. Event
// identity equals product identity, so events carry no lifecycle of
// their own.
type CalendarEvent struct {
	EventID    string `json:"eventId"`
	ProductRef string `json:"productRef"`
	Name       string `json:"name"` // denormalised copy, refreshed on recompute
	ExpiryDate string `json:"expiryDate"`
	Note       string `json:"note"`
}
