package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking on the backend.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// BookingStatuses lists every status in display order.
var BookingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseBookingStatus validates a raw status string.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(raw)
	if !s.Valid() {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown booking status %q", raw)}
	}
	return s, nil
}

// PaymentStatus is the payment state recorded against a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// BookingRecord is a booking as seen by the admin surface.
type BookingRecord struct {
	ID            int             `json:"id"`
	ServiceName   string          `json:"serviceName"`
	ProviderName  string          `json:"barberName"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        BookingStatus   `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	CardBrand     string          `json:"cardBrand,omitempty"`
	CardLast4     string          `json:"cardLast4,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CustomerInfo is collected when staff book on behalf of a customer.
type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// FullName joins first and last name.
func (c CustomerInfo) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// CreateBookingRequest is the body of the booking creation call.
type CreateBookingRequest struct {
	ServiceIDs  []int  `json:"serviceIds"`
	ProviderID  *int   `json:"barberId"` // null asks the backend to assign a barber
	BookingDate string `json:"bookingDate"`
	BookingTime string `json:"bookingTime"`
	Notes       string `json:"notes"`

	CustomerFirstName string `json:"customerFirstName,omitempty"`
	CustomerLastName  string `json:"customerLastName,omitempty"`
	CustomerEmail     string `json:"customerEmail,omitempty"`
	CustomerPhone     string `json:"customerPhone,omitempty"`

	StripeCustomerID      string `json:"stripeCustomerId,omitempty"`
	StripePaymentMethodID string `json:"stripePaymentMethodId,omitempty"`
	CardBrand             string `json:"cardBrand,omitempty"`
	CardLast4             string `json:"cardLast4,omitempty"`
}

// CreateBookingResponse is what the backend returns for a created booking.
type CreateBookingResponse struct {
	BookingID        int       `json:"bookingId"`
	AssignedProvider *Provider `json:"assignedBarber,omitempty"`
}
