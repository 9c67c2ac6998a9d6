package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"barberbook/models"
	"barberbook/services/catalog"

	"github.com/stretchr/testify/mock"
)

type mockAvailability struct {
	mock.Mock
}

func (m *mockAvailability) Candidates(ctx context.Context, cat *catalog.Catalog, date string, slot models.TimeSlot) ([]models.Provider, error) {
	args := m.Called(ctx, cat, date, slot)
	ps, _ := args.Get(0).([]models.Provider)
	return ps, args.Error(1)
}

func (m *mockAvailability) PreviewAssignedProvider(ctx context.Context, date string, slot models.TimeSlot) *models.Provider {
	args := m.Called(ctx, date, slot)
	p, _ := args.Get(0).(*models.Provider)
	return p
}

type mockBookings struct {
	mock.Mock
}

func (m *mockBookings) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.CreateBookingResponse)
	return resp, args.Error(1)
}

type mockAuthorizer struct {
	mock.Mock
}

func (m *mockAuthorizer) Verify(ctx context.Context) (*models.PaymentVerification, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.PaymentVerification)
	return v, args.Error(1)
}

type mockReminders struct {
	mock.Mock
}

func (m *mockReminders) ScheduleReminder(ctx context.Context, p models.ReminderPayload) error {
	return m.Called(ctx, p).Error(0)
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

type fixture struct {
	avail     *mockAvailability
	bookings  *mockBookings
	reminders *mockReminders
	nav       *recordingNavigator
	deps      Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		avail:     new(mockAvailability),
		bookings:  new(mockBookings),
		reminders: new(mockReminders),
		nav:       &recordingNavigator{},
	}
	f.deps = Deps{
		Catalog:      catalog.Default(),
		Availability: f.avail,
		Bookings:     f.bookings,
		Navigator:    f.nav,
		Reminders:    f.reminders,
		Now:          func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		Location:     time.UTC,
	}
	return f
}

func intPtr(i int) *int { return &i }

// atSummary drives a fresh wizard to the summary step.
func atSummary(t *testing.T, w *Wizard, provider models.Provider, serviceIDs []int, date string, slot models.TimeSlot) {
	t.Helper()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	must(w.SelectProvider(provider))
	_, err := w.Next()
	must(err)
	must(w.SetServices(serviceIDs))
	_, err = w.Next()
	must(err)
	must(w.SelectDate(date))
	must(w.SelectTime(slot))
	_, err = w.Next()
	must(err)
}
