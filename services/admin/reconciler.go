// Package admin keeps the staff view of all bookings in step with the
// backend, applying status changes optimistically.
package admin

import (
	"context"
	"fmt"
	"sync"

	"barberbook/models"
	"barberbook/services/backend"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgLoadFailed    = "Failed to load bookings"
	msgStatusUpdated = "Booking status updated successfully"
	msgStatusFailed  = "Failed to update status"
	msgCancelConfirm = "Are you sure you want to cancel this booking?"
	msgCancelled     = "Booking cancelled successfully"
	msgCancelFailed  = "Failed to cancel booking"
	filterAll        = "all"
)

var _ AdminService = (*DefaultAdminService)(nil)

type pendingUpdate struct {
	token  string
	status models.BookingStatus
}

// DefaultAdminService is the production AdminService. Every status change
// is written to the local list before the request is sent; a failure
// discards it with a full refetch.
type DefaultAdminService struct {
	source    BookingSource
	confirmer models.Confirmer
	notifier  models.Notifier
	logger    *zap.Logger

	mu       sync.Mutex
	bookings []models.BookingRecord
	inflight map[int]pendingUpdate
	closed   bool
}

// NewReconciler builds an admin service. confirmer and notifier may be nil.
func NewReconciler(source BookingSource, confirmer models.Confirmer, notifier models.Notifier, logger *zap.Logger) *DefaultAdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAdminService{
		source:    source,
		confirmer: confirmer,
		notifier:  notifier,
		logger:    logger,
		inflight:  make(map[int]pendingUpdate),
	}
}

func (r *DefaultAdminService) notify(ctx context.Context, level models.NoticeLevel, msg string) {
	if r.notifier != nil {
		r.notifier.Notify(ctx, level, msg)
	}
}

func (r *DefaultAdminService) confirm(ctx context.Context, msg string) bool {
	if r.confirmer == nil {
		return true
	}
	return r.confirmer.Confirm(ctx, msg)
}

// Refresh replaces the local list with the backend's. Status changes still
// in flight are laid back on top so they do not flicker.
func (r *DefaultAdminService) Refresh(ctx context.Context) error {
	fetched, err := r.source.ListAllBookings(ctx)
	if err != nil {
		r.logger.Error("failed to load bookings", zap.Error(err))
		return &models.LoadError{Message: msgLoadFailed, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return models.ErrClosed
	}
	for i := range fetched {
		if p, ok := r.inflight[fetched[i].ID]; ok {
			fetched[i].Status = p.status
		}
	}
	r.bookings = fetched
	return nil
}

// Bookings returns a copy of the list, narrowed to one status unless filter
// is empty or "all".
func (r *DefaultAdminService) Bookings(filter string) ([]models.BookingRecord, error) {
	var status models.BookingStatus
	if filter != "" && filter != filterAll {
		s, err := models.ParseBookingStatus(filter)
		if err != nil {
			return nil, err
		}
		status = s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.BookingRecord, 0, len(r.bookings))
	for _, b := range r.bookings {
		if status == "" || b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

// ChangeStatus sets a booking's status. The local list shows the new value
// at once. A newer change to the same booking supersedes this one: if this
// request then fails, nothing is rolled back.
func (r *DefaultAdminService) ChangeStatus(ctx context.Context, id int, status models.BookingStatus) error {
	if !status.Valid() {
		return &models.ValidationError{Field: "status", Message: fmt.Sprintf("unknown booking status %q", status)}
	}
	if !r.confirm(ctx, fmt.Sprintf("Change booking #%d to %s?", id, status)) {
		return models.ErrDeclined
	}

	token := uuid.NewString()
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return models.ErrClosed
	}
	idx := r.indexOf(id)
	if idx < 0 {
		r.mu.Unlock()
		return &models.ValidationError{Field: "id", Message: fmt.Sprintf("booking %d not found", id)}
	}
	r.bookings[idx].Status = status
	r.inflight[id] = pendingUpdate{token: token, status: status}
	r.mu.Unlock()

	err := r.source.UpdateBookingStatus(ctx, id, status)

	r.mu.Lock()
	current := r.inflight[id].token == token
	if current {
		delete(r.inflight, id)
	}
	closed := r.closed
	r.mu.Unlock()

	log := r.logger.With(zap.Int("bookingID", id), zap.String("status", string(status)))
	switch {
	case closed:
		return models.ErrClosed
	case err == nil:
		if current {
			r.notify(ctx, models.NoticeSuccess, msgStatusUpdated)
		}
		log.Info("booking status updated")
		return nil
	case !current:
		log.Warn("superseded status update failed", zap.Error(err))
		return &models.ReconciliationError{BookingID: id, Message: msgStatusFailed, Err: err}
	}

	log.Warn("status update failed, refetching", zap.Error(err))
	if rerr := r.Refresh(ctx); rerr != nil {
		log.Error("refetch after failed update also failed", zap.Error(rerr))
	}
	r.notify(ctx, models.NoticeError, msgStatusFailed)
	return &models.ReconciliationError{BookingID: id, Message: backend.MessageOf(err, msgStatusFailed), Err: err}
}

// Cancel asks for confirmation, cancels the booking and refetches.
func (r *DefaultAdminService) Cancel(ctx context.Context, id int) error {
	if r.isClosed() {
		return models.ErrClosed
	}
	if !r.confirm(ctx, msgCancelConfirm) {
		return models.ErrDeclined
	}

	if err := r.source.CancelBooking(ctx, id); err != nil {
		msg := msgCancelFailed + ": " + backend.MessageOf(err, err.Error())
		r.logger.Warn("cancel failed", zap.Int("bookingID", id), zap.Error(err))
		r.notify(ctx, models.NoticeError, msg)
		return &models.ReconciliationError{BookingID: id, Message: msg, Err: err}
	}

	r.notify(ctx, models.NoticeSuccess, msgCancelled)
	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn("refetch after cancel failed", zap.Int("bookingID", id), zap.Error(err))
	}
	return nil
}

func (r *DefaultAdminService) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *DefaultAdminService) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *DefaultAdminService) indexOf(id int) int {
	for i, b := range r.bookings {
		if b.ID == id {
			return i
		}
	}
	return -1
}
