package notification

import (
	"context"
	"fmt"
	"strings"

	"barberbook/models"

	"go.uber.org/zap"
)

// NotificationService delivers booking reminders to customers.
type NotificationService interface {
	SendBookingReminder(ctx context.Context, p models.ReminderPayload) error
}

// LogNotificationService writes reminders to the structured log. The
// scheduling backend owns email delivery; this keeps a record on our side.
type LogNotificationService struct {
	logger *zap.Logger
}

func NewLogNotificationService(logger *zap.Logger) (*LogNotificationService, error) {
	if logger == nil {
		return nil, fmt.Errorf("notification service initialization error: logger is nil")
	}
	return &LogNotificationService{logger: logger}, nil
}

func (s *LogNotificationService) SendBookingReminder(_ context.Context, p models.ReminderPayload) error {
	recipient := p.CustomerEmail
	if recipient == "" {
		recipient = p.UserID
	}
	if recipient == "" {
		return fmt.Errorf("SendBookingReminder: booking %d has no recipient", p.BookingID)
	}

	s.logger.Info("booking reminder",
		zap.Int("bookingID", p.BookingID),
		zap.String("recipient", recipient),
		zap.String("title", p.Title),
		zap.String("body", p.Body),
		zap.String("services", joinServices(p.Services)),
	)
	return nil
}

func joinServices(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
