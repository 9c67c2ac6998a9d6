package wizard

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"barberbook/models"
	"barberbook/services/backend"
	"barberbook/services/payment"

	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgConfirmed    = "Booking confirmed! You will receive a confirmation email shortly."
	msgSubmitFailed = "Failed to create booking. Please try again."
	historyPath     = "/profile"
)

// Result describes a created booking.
type Result struct {
	BookingID        int              `json:"bookingId"`
	AssignedProvider *models.Provider `json:"assignedBarber,omitempty"`
	Message          string           `json:"message"`
}

func validateCustomer(c models.CustomerInfo) error {
	switch {
	case strings.TrimSpace(c.FirstName) == "":
		return &models.ValidationError{Field: "customerFirstName", Message: "Customer first name is required"}
	case strings.TrimSpace(c.LastName) == "":
		return &models.ValidationError{Field: "customerLastName", Message: "Customer last name is required"}
	case !emailPattern.MatchString(strings.TrimSpace(c.Email)):
		return &models.ValidationError{Field: "customerEmail", Message: "Please enter a valid customer email"}
	}
	return nil
}

// resolveProviderID picks the barber id sent with the booking. A preview
// wins; the sentinel or an id-less choice becomes null.
func resolveProviderID(draft models.DraftBooking, preview *models.Provider) *int {
	if preview != nil && !preview.IsSentinel() {
		id := preview.IDValue()
		return &id
	}
	if draft.Provider == nil || draft.Provider.IsSentinel() {
		return nil
	}
	id := draft.Provider.IDValue()
	return &id
}

func buildRequest(draft models.DraftBooking, preview *models.Provider, staff bool, customer models.CustomerInfo, v *models.PaymentVerification) models.CreateBookingRequest {
	req := models.CreateBookingRequest{
		ServiceIDs:  draft.ServiceIDs(),
		ProviderID:  resolveProviderID(draft, preview),
		BookingDate: draft.Date,
		BookingTime: string(draft.Time),
		Notes:       "",
	}
	if staff {
		req.CustomerFirstName = strings.TrimSpace(customer.FirstName)
		req.CustomerLastName = strings.TrimSpace(customer.LastName)
		req.CustomerEmail = strings.TrimSpace(customer.Email)
		req.CustomerPhone = strings.TrimSpace(customer.Phone)
	}
	if v != nil {
		req.StripeCustomerID = v.CustomerID
		req.StripePaymentMethodID = v.PaymentMethodID
		req.CardBrand = v.CardBrand
		req.CardLast4 = v.CardLast4
	}
	return req
}

func confirmationMessage(draft models.DraftBooking, assigned *models.Provider) string {
	if assigned != nil && assigned.Name != "" && draft.Provider != nil && draft.Provider.IsSentinel() {
		return fmt.Sprintf("Booking confirmed! Your barber: %s. You will receive a confirmation email shortly.", assigned.Name)
	}
	return msgConfirmed
}

// Submit verifies the card with auth and creates the booking. On failure
// the draft is left as it was so the user can retry. On success the draft
// is reset, the wizard closes and the user is sent to their bookings.
func (w *Wizard) Submit(ctx context.Context, auth payment.Authorizer) (*Result, error) {
	w.mu.Lock()
	switch {
	case w.closed:
		w.mu.Unlock()
		return nil, models.ErrClosed
	case w.processing:
		w.mu.Unlock()
		return nil, models.ErrBusy
	case w.step != StepSummary:
		w.mu.Unlock()
		return nil, guardError("Please review your booking before confirming")
	case !w.draft.Submittable():
		w.mu.Unlock()
		return nil, guardError("Your booking is missing a barber, service, date or time")
	}
	if w.actor.Staff {
		if err := validateCustomer(w.customer); err != nil {
			w.mu.Unlock()
			return nil, err
		}
	}
	w.processing = true
	draft := w.draft.Clone()
	preview := w.preview
	customer := w.customer
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.processing = false
		w.mu.Unlock()
	}()

	verification, err := auth.Verify(ctx)
	if err != nil {
		return nil, err
	}
	if w.Closed() {
		return nil, models.ErrClosed
	}

	req := buildRequest(draft, preview, w.actor.Staff, customer, verification)
	resp, err := w.deps.Bookings.CreateBooking(ctx, req)
	if err != nil {
		w.logger.Warn("booking submission failed",
			zap.Ints("serviceIds", req.ServiceIDs), zap.String("date", req.BookingDate),
			zap.String("time", req.BookingTime), zap.Error(err))
		return nil, &models.SubmissionError{Message: backend.MessageOf(err, msgSubmitFailed), Err: err}
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("booking created after session closed", zap.Int("bookingID", resp.BookingID))
		return nil, models.ErrClosed
	}
	w.draft = models.DraftBooking{}
	w.preview = nil
	w.customer = models.CustomerInfo{}
	w.step = StepSelectProvider
	w.generation++
	w.closed = true
	w.mu.Unlock()

	result := &Result{
		BookingID:        resp.BookingID,
		AssignedProvider: resp.AssignedProvider,
		Message:          confirmationMessage(draft, resp.AssignedProvider),
	}
	w.logger.Info("booking submitted", zap.Int("bookingID", resp.BookingID))

	w.scheduleReminder(ctx, resp, draft, customer)
	if w.deps.Navigator != nil {
		w.deps.Navigator.Navigate(ctx, historyPath)
	}
	return result, nil
}

func (w *Wizard) scheduleReminder(ctx context.Context, resp *models.CreateBookingResponse, draft models.DraftBooking, customer models.CustomerInfo) {
	if w.deps.Reminders == nil {
		return
	}
	providerName := models.AnyAvailableName
	switch {
	case resp.AssignedProvider != nil:
		providerName = resp.AssignedProvider.Name
	case draft.Provider != nil:
		providerName = draft.Provider.Name
	}
	names := make([]string, 0, len(draft.Services))
	for _, s := range draft.Services {
		names = append(names, s.Name)
	}
	payload := models.ReminderPayload{
		BookingID:    resp.BookingID,
		UserID:       w.actor.UserID,
		ProviderName: providerName,
		Services:     names,
		Date:         draft.Date,
		Time:         string(draft.Time),
		Title:        "Upcoming appointment",
		Body:         fmt.Sprintf("See you on %s at %s with %s.", draft.Date, draft.Time, providerName),
	}
	if w.actor.Staff {
		payload.CustomerName = customer.FullName()
		payload.CustomerEmail = customer.Email
	} else {
		payload.CustomerEmail = w.actor.Email
	}
	if err := w.deps.Reminders.ScheduleReminder(ctx, payload); err != nil {
		w.logger.Error("failed to schedule reminder", zap.Int("bookingID", resp.BookingID), zap.Error(err))
	}
}
