package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"barberbook/models"
	"barberbook/services/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// providerPayload is a barber row as the backend returns it. Older
// endpoints send first_name, newer ones send name or firstName.
type providerPayload struct {
	ID        *int                `json:"id"`
	Name      string              `json:"name"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	FirstCC   string              `json:"firstName"`
	Specialty string              `json:"specialty"`
	Rating    decimal.NullDecimal `json:"rating"`
	Image     string              `json:"image"`
	Photo     string              `json:"photo"`
}

func (p providerPayload) toProvider() models.Provider {
	name := p.FirstName
	if name == "" {
		name = p.FirstCC
	}
	if name == "" {
		name = p.Name
	}
	out := models.Provider{
		ID:        p.ID,
		Name:      name,
		Specialty: p.Specialty,
		Tier:      models.TierFromText(p.Specialty),
		Avatar:    catalog.AvatarFor(name),
	}
	if out.Avatar == "" {
		out.Avatar = p.Image
	}
	if out.Avatar == "" {
		out.Avatar = p.Photo
	}
	if p.Rating.Valid {
		r := p.Rating.Decimal.InexactFloat64()
		out.Rating = &r
	}
	return out
}

// bookingPayload is a row of the admin booking listing.
type bookingPayload struct {
	ID                int                 `json:"id"`
	BookingDate       string              `json:"booking_date"`
	BookingTime       string              `json:"booking_time"`
	Status            string              `json:"status"`
	TotalPrice        decimal.NullDecimal `json:"total_price"`
	Notes             string              `json:"notes"`
	CreatedAt         string              `json:"created_at"`
	ServiceName       string              `json:"service_name"`
	CustomerFirstName string              `json:"customer_first_name"`
	CustomerLastName  string              `json:"customer_last_name"`
	CustomerEmail     string              `json:"customer_email"`
	BarberFirstName   string              `json:"barber_first_name"`
	BarberLastName    string              `json:"barber_last_name"`
	PaymentStatus     string              `json:"payment_status"`
	CardBrand         string              `json:"card_brand"`
	CardLast4         string              `json:"card_last4"`
	CardLast4Alt      string              `json:"card_last_4"`
}

func (p bookingPayload) toRecord() models.BookingRecord {
	rec := models.BookingRecord{
		ID:            p.ID,
		ServiceName:   p.ServiceName,
		ProviderName:  joinName(p.BarberFirstName, p.BarberLastName),
		CustomerName:  joinName(p.CustomerFirstName, p.CustomerLastName),
		CustomerEmail: p.CustomerEmail,
		Date:          truncate(p.BookingDate, 10),
		Time:          truncate(p.BookingTime, 5),
		Status:        models.BookingStatus(p.Status),
		PaymentStatus: models.PaymentStatus(p.PaymentStatus),
		CardBrand:     p.CardBrand,
		CardLast4:     p.CardLast4,
		Notes:         p.Notes,
	}
	if rec.CardLast4 == "" {
		rec.CardLast4 = p.CardLast4Alt
	}
	if rec.ProviderName == "" {
		rec.ProviderName = models.AnyAvailableName
	}
	if p.TotalPrice.Valid {
		rec.TotalPrice = p.TotalPrice.Decimal
	}
	if p.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
			rec.CreatedAt = t
		}
	}
	return rec
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// AvailableProviders lists barbers free at date and time.
func (c *Client) AvailableProviders(ctx context.Context, date, slot string) ([]models.Provider, error) {
	var data struct {
		Barbers []providerPayload `json:"barbers"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/bookings/available-barbers",
		query:  url.Values{"date": {date}, "time": {slot}},
	}, &data)
	if err != nil {
		return nil, err
	}

	providers := make([]models.Provider, 0, len(data.Barbers))
	for _, b := range data.Barbers {
		providers = append(providers, b.toProvider())
	}
	return providers, nil
}

// PreviewProvider asks which barber the backend would assign at date and
// time. A nil result with nil error means the backend had no candidate.
func (c *Client) PreviewProvider(ctx context.Context, date, slot string) (*models.Provider, error) {
	var data struct {
		Barber *providerPayload `json:"barber"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/bookings/preview-barber",
		query:  url.Values{"date": {date}, "time": {slot}},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Barber == nil || data.Barber.ID == nil {
		return nil, nil
	}
	p := data.Barber.toProvider()
	return &p, nil
}

// CreateBooking submits a booking. Each call carries a fresh idempotency key.
func (c *Client) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	var data struct {
		BookingID *int `json:"bookingId"`
		ID        *int `json:"id"`
		Booking   *struct {
			ID int `json:"id"`
		} `json:"booking"`
		AssignedBarber *providerPayload `json:"assignedBarber"`
	}
	key := uuid.NewString()
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/bookings",
		body:    req,
		headers: map[string]string{"Idempotency-Key": key},
	}, &data)
	if err != nil {
		return nil, err
	}

	resp := &models.CreateBookingResponse{}
	switch {
	case data.Booking != nil:
		resp.BookingID = data.Booking.ID
	case data.BookingID != nil:
		resp.BookingID = *data.BookingID
	case data.ID != nil:
		resp.BookingID = *data.ID
	}
	if data.AssignedBarber != nil {
		p := data.AssignedBarber.toProvider()
		resp.AssignedProvider = &p
	}
	c.logger.Info("booking created",
		zap.Int("bookingID", resp.BookingID), zap.String("idempotencyKey", key))
	return resp, nil
}

// ListMyBookings returns the signed-in user's bookings.
func (c *Client) ListMyBookings(ctx context.Context) ([]models.BookingRecord, error) {
	return c.listBookings(ctx, "/bookings")
}

// ListAllBookings returns every booking. Admin only.
func (c *Client) ListAllBookings(ctx context.Context) ([]models.BookingRecord, error) {
	return c.listBookings(ctx, "/bookings/all")
}

func (c *Client) listBookings(ctx context.Context, path string) ([]models.BookingRecord, error) {
	var data struct {
		Bookings []json.RawMessage `json:"bookings"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &data); err != nil {
		return nil, err
	}

	records := make([]models.BookingRecord, 0, len(data.Bookings))
	for _, raw := range data.Bookings {
		var row bookingPayload
		if err := json.Unmarshal(raw, &row); err != nil {
			c.logger.Warn("skipping malformed booking row", zap.Error(err))
			continue
		}
		records = append(records, row.toRecord())
	}
	return records, nil
}

// UpdateBookingStatus sets the status of booking id.
func (c *Client) UpdateBookingStatus(ctx context.Context, id int, status models.BookingStatus) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/bookings/%d/status", id),
		body:   map[string]string{"status": string(status)},
	}, nil)
}

// CancelBooking cancels booking id.
func (c *Client) CancelBooking(ctx context.Context, id int) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/bookings/%d/cancel", id),
	}, nil)
}
