package admin

import (
	"context"

	"barberbook/models"
)

// BookingSource is the part of the scheduling backend the admin surface uses.
type BookingSource interface {
	ListAllBookings(ctx context.Context) ([]models.BookingRecord, error)
	UpdateBookingStatus(ctx context.Context, id int, status models.BookingStatus) error
	CancelBooking(ctx context.Context, id int) error
}

// AdminService is the admin booking surface for one staff session.
type AdminService interface {
	Refresh(ctx context.Context) error
	Bookings(filter string) ([]models.BookingRecord, error)
	Stats(today string) Stats
	ChangeStatus(ctx context.Context, id int, status models.BookingStatus) error
	Cancel(ctx context.Context, id int) error
	Close()
}
