package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"barberbook/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingReminder = "booking:reminder"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.MaxRetry(3),
		asynq.TaskID(fmt.Sprintf("booking-reminder-%d", payload.BookingID)),
	}

	return task, opts, nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler queues a reminder a fixed lead time before each appointment.
type Scheduler struct {
	queue  Enqueuer
	lead   time.Duration
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewScheduler(queue Enqueuer, lead time.Duration, loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{queue: queue, lead: lead, loc: loc, now: time.Now, logger: logger}
}

// ScheduleReminder enqueues the reminder. Appointments whose reminder time
// has already passed are skipped without error.
func (s *Scheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload) error {
	appointment, err := time.ParseInLocation("2006-01-02 15:04", payload.Date+" "+payload.Time, s.loc)
	if err != nil {
		return fmt.Errorf("invalid appointment time %q %q: %w", payload.Date, payload.Time, err)
	}

	fireAt := appointment.Add(-s.lead)
	if !fireAt.After(s.now()) {
		s.logger.Debug("reminder time already passed, skipping",
			zap.Int("bookingID", payload.BookingID), zap.Time("appointment", appointment))
		return nil
	}

	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	info, err := s.queue.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}

	s.logger.Info("reminder scheduled",
		zap.Int("bookingID", payload.BookingID),
		zap.String("taskID", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
