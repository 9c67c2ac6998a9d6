package models

import "github.com/shopspring/decimal"

// DraftBooking is the selection accumulated by one booking wizard.
type DraftBooking struct {
	Services []Service `json:"services"`
	Provider *Provider `json:"barber"`
	Date     string    `json:"date,omitempty"` // YYYY-MM-DD
	Time     TimeSlot  `json:"time,omitempty"`
}

// TotalPrice sums the prices of the selected services. It is never cached.
func (d DraftBooking) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, s := range d.Services {
		total = total.Add(s.Price)
	}
	return total
}

// TotalDuration sums the durations of the selected services, in minutes.
func (d DraftBooking) TotalDuration() int {
	total := 0
	for _, s := range d.Services {
		total += s.Duration
	}
	return total
}

// HasService reports whether a service with the given id is selected.
func (d DraftBooking) HasService(id int) bool {
	for _, s := range d.Services {
		if s.ID == id {
			return true
		}
	}
	return false
}

// ServiceIDs returns the selected service ids in selection order.
func (d DraftBooking) ServiceIDs() []int {
	ids := make([]int, 0, len(d.Services))
	for _, s := range d.Services {
		ids = append(ids, s.ID)
	}
	return ids
}

// Submittable reports whether the draft has at least one service, a
// provider choice (the sentinel counts), a date and a time.
func (d DraftBooking) Submittable() bool {
	return len(d.Services) > 0 && d.Provider != nil && d.Date != "" && d.Time != ""
}

// Clone returns a deep copy so callers cannot mutate wizard state.
func (d DraftBooking) Clone() DraftBooking {
	out := DraftBooking{Date: d.Date, Time: d.Time}
	if d.Services != nil {
		out.Services = append([]Service(nil), d.Services...)
	}
	if d.Provider != nil {
		p := *d.Provider
		out.Provider = &p
	}
	return out
}
