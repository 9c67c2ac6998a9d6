package models

// ReminderPayload is queued after a booking is created and delivered
// shortly before the appointment.
type ReminderPayload struct {
	BookingID     int      `json:"bookingId"`
	UserID        string   `json:"userId,omitempty"`
	CustomerName  string   `json:"customerName,omitempty"`
	CustomerEmail string   `json:"customerEmail,omitempty"`
	ProviderName  string   `json:"barberName"`
	Services      []string `json:"services"`
	Date          string   `json:"date"` // YYYY-MM-DD
	Time          string   `json:"time"` // HH:MM
	Title         string   `json:"title"`
	Body          string   `json:"body"`
}
