// Package wizard drives one booking attempt from barber choice to
// submission.
package wizard

import (
	"context"
	"sync"
	"time"

	"barberbook/models"
	"barberbook/services/catalog"
	"barberbook/services/eligibility"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Availability is what the wizard needs from the availability resolver.
type Availability interface {
	Candidates(ctx context.Context, cat *catalog.Catalog, date string, slot models.TimeSlot) ([]models.Provider, error)
	PreviewAssignedProvider(ctx context.Context, date string, slot models.TimeSlot) *models.Provider
}

// BookingCreator sends the final booking request.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.CreateBookingResponse, error)
}

// ReminderScheduler queues the appointment reminder. Optional.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload) error
}

// Deps are the collaborators shared by every wizard.
type Deps struct {
	Catalog      *catalog.Catalog
	Availability Availability
	Bookings     BookingCreator
	Navigator    models.Navigator
	Reminders    ReminderScheduler
	Now          func() time.Time
	Location     *time.Location
	Logger       *zap.Logger
}

func (d *Deps) setDefaults() {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
}

// Actor is the signed-in user driving the wizard. Staff book on behalf of
// a customer and must supply the customer's details.
type Actor struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Staff  bool   `json:"staff"`
}

// Preselection seeds a wizard from a deep link such as "book again".
// It is trusted as-is.
type Preselection struct {
	Provider   *models.Provider `json:"barber,omitempty"`
	ServiceIDs []int            `json:"serviceIds,omitempty"`
	StartAt    Step             `json:"startAtStep,omitempty"`
}

// Wizard holds one DraftBooking and the step it is on. All methods are
// safe for concurrent use; network calls run without the lock held.
type Wizard struct {
	id     string
	actor  Actor
	deps   Deps
	logger *zap.Logger

	mu         sync.Mutex
	step       Step
	draft      models.DraftBooking
	preview    *models.Provider
	customer   models.CustomerInfo
	generation uint64 // bumped when provider, date or time change
	processing bool
	closed     bool
}

func New(id string, actor Actor, deps Deps) *Wizard {
	deps.setDefaults()
	return &Wizard{
		id:     id,
		actor:  actor,
		deps:   deps,
		logger: deps.Logger.With(zap.String("session", id)),
		step:   StepSelectProvider,
	}
}

// NewWithPreselection starts a wizard with provider and services filled in,
// at pre.StartAt or the date step when unset.
func NewWithPreselection(id string, actor Actor, deps Deps, pre Preselection) *Wizard {
	w := New(id, actor, deps)
	if pre.Provider != nil {
		p := *pre.Provider
		w.draft.Provider = &p
	}
	for _, sid := range pre.ServiceIDs {
		if s, ok := w.deps.Catalog.ServiceByID(sid); ok && !w.draft.HasService(sid) {
			w.draft.Services = append(w.draft.Services, s)
		}
	}
	w.step = StepSelectDateTime
	if pre.StartAt.Valid() {
		w.step = pre.StartAt
	}
	return w
}

func (w *Wizard) ID() string { return w.id }

func (w *Wizard) Actor() Actor { return w.actor }

func (w *Wizard) Catalog() *catalog.Catalog { return w.deps.Catalog }

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the current selection.
func (w *Wizard) Draft() models.DraftBooking {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

func (w *Wizard) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *Wizard) Processing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.processing
}

// mutate runs fn under the lock after the common checks.
func (w *Wizard) mutate(fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return models.ErrClosed
	}
	if w.processing {
		return models.ErrBusy
	}
	return fn()
}

// mutateSlot is mutate for changes to the provider, date or time, which
// the preview is keyed on. It drops any preview already loaded.
func (w *Wizard) mutateSlot(fn func() error) error {
	return w.mutate(func() error {
		if err := fn(); err != nil {
			return err
		}
		w.generation++
		w.preview = nil
		return nil
	})
}

// SelectProvider records the barber choice; the sentinel is a valid choice.
func (w *Wizard) SelectProvider(p models.Provider) error {
	return w.mutateSlot(func() error {
		if !p.IsSentinel() {
			if known, ok := w.deps.Catalog.ProviderByID(p.IDValue()); ok && p.Name == "" {
				p = known
			}
		}
		w.draft.Provider = &p
		return nil
	})
}

// ToggleService adds the service if absent and removes it if present.
func (w *Wizard) ToggleService(id int) error {
	return w.mutate(func() error {
		for i, s := range w.draft.Services {
			if s.ID == id {
				w.draft.Services = append(w.draft.Services[:i:i], w.draft.Services[i+1:]...)
				return nil
			}
		}
		s, ok := w.deps.Catalog.ServiceByID(id)
		if !ok {
			return &models.ValidationError{Field: "serviceId", Message: "Unknown service"}
		}
		w.draft.Services = append(w.draft.Services, s)
		return nil
	})
}

// SetServices replaces the service selection, keeping the given order.
// Repeated ids count once.
func (w *Wizard) SetServices(ids []int) error {
	services, err := w.deps.Catalog.ServicesByID(ids)
	if err != nil {
		return err
	}
	return w.mutate(func() error {
		var next models.DraftBooking
		for _, s := range services {
			if !next.HasService(s.ID) {
				next.Services = append(next.Services, s)
			}
		}
		w.draft.Services = next.Services
		return nil
	})
}

// SelectDate sets the appointment day. Days before today are rejected.
func (w *Wizard) SelectDate(date string) error {
	day, err := time.ParseInLocation(dateLayout, date, w.deps.Location)
	if err != nil {
		return &models.ValidationError{Field: "date", Message: "Date must be in YYYY-MM-DD format"}
	}
	now := w.deps.Now().In(w.deps.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, w.deps.Location)
	if day.Before(today) {
		return &models.ValidationError{Field: "date", Message: "Please choose today or a future date"}
	}
	return w.mutateSlot(func() error {
		w.draft.Date = date
		return nil
	})
}

// SelectTime sets the appointment slot; it must be on the slot grid.
func (w *Wizard) SelectTime(slot models.TimeSlot) error {
	if !w.deps.Catalog.IsSlot(slot) {
		return &models.ValidationError{Field: "time", Message: "Please choose one of the available times"}
	}
	return w.mutateSlot(func() error {
		w.draft.Time = slot
		return nil
	})
}

// SetCustomer stores the customer details staff enter for a booking.
func (w *Wizard) SetCustomer(info models.CustomerInfo) error {
	return w.mutate(func() error {
		w.customer = info
		return nil
	})
}

func (w *Wizard) Customer() models.CustomerInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.customer
}

func guardError(msg string) error {
	return &models.ValidationError{Field: "step", Message: msg, Err: models.ErrStepGuard}
}

// Next advances one step if the current step's guard passes.
func (w *Wizard) Next() (Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return w.step, models.ErrClosed
	}
	switch w.step {
	case StepSelectProvider:
		if w.draft.Provider == nil {
			return w.step, guardError("Please select a barber")
		}
	case StepSelectServices:
		if len(w.draft.Services) == 0 {
			return w.step, guardError("Please select at least one service")
		}
	case StepSelectDateTime:
		if w.draft.Date == "" || w.draft.Time == "" {
			return w.step, guardError("Please select a date and time")
		}
	case StepSummary:
		return w.step, guardError("Already at the last step")
	}
	w.step++
	return w.step, nil
}

// Back moves one step back. It never fails on the first step.
func (w *Wizard) Back() (Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return w.step, models.ErrClosed
	}
	if w.processing {
		return w.step, models.ErrBusy
	}
	if w.step > StepSelectProvider {
		w.step--
	}
	return w.step, nil
}

func (w *Wizard) TotalPrice() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.TotalPrice()
}

func (w *Wizard) TotalDuration() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.TotalDuration()
}

// Progress is the compact state shown alongside every step.
type Progress struct {
	Step          Step            `json:"step"`
	StepName      string          `json:"stepName"`
	ProviderName  string          `json:"barberName,omitempty"`
	ServiceCount  int             `json:"serviceCount"`
	Date          string          `json:"date,omitempty"`
	Time          models.TimeSlot `json:"time,omitempty"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	TotalDuration int             `json:"totalDuration"`
}

func (w *Wizard) Progress() Progress {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := Progress{
		Step:          w.step,
		StepName:      w.step.String(),
		ServiceCount:  len(w.draft.Services),
		Date:          w.draft.Date,
		Time:          w.draft.Time,
		TotalPrice:    w.draft.TotalPrice(),
		TotalDuration: w.draft.TotalDuration(),
	}
	if w.draft.Provider != nil {
		p.ProviderName = w.draft.Provider.Name
	}
	return p
}

// TimeSlots returns the slot grid for the chosen date, or for today.
func (w *Wizard) TimeSlots() []models.TimeSlot {
	w.mu.Lock()
	date := w.draft.Date
	w.mu.Unlock()

	day := w.deps.Now().In(w.deps.Location)
	if date != "" {
		if d, err := time.ParseInLocation(dateLayout, date, w.deps.Location); err == nil {
			day = d
		}
	}
	return w.deps.Catalog.SlotsFor(day)
}

// EligibleProviders is the barber list for the provider step: the
// candidates for the chosen date and time narrowed by the selected services.
func (w *Wizard) EligibleProviders(ctx context.Context) ([]models.Provider, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, models.ErrClosed
	}
	draft := w.draft.Clone()
	w.mu.Unlock()

	candidates, err := w.deps.Availability.Candidates(ctx, w.deps.Catalog, draft.Date, draft.Time)
	if err != nil {
		return nil, err
	}
	if w.Closed() {
		return nil, models.ErrClosed
	}
	return eligibility.Filter(draft.Services, candidates), nil
}

// LoadPreview fetches who "Any Available" would resolve to. It only calls
// out when the sentinel is chosen and date and time are set. A result for a
// draft that changed meanwhile is dropped.
func (w *Wizard) LoadPreview(ctx context.Context) *models.Provider {
	w.mu.Lock()
	if w.closed || w.draft.Provider == nil || !w.draft.Provider.IsSentinel() ||
		w.draft.Date == "" || w.draft.Time == "" {
		w.mu.Unlock()
		return nil
	}
	if w.preview != nil {
		p := *w.preview
		w.mu.Unlock()
		return &p
	}
	gen, date, slot := w.generation, w.draft.Date, w.draft.Time
	w.mu.Unlock()

	preview := w.deps.Availability.PreviewAssignedProvider(ctx, date, slot)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || gen != w.generation {
		return nil
	}
	w.preview = preview
	if preview == nil {
		return nil
	}
	p := *preview
	return &p
}

// Summary is the review page content.
type Summary struct {
	Draft         models.DraftBooking `json:"draft"`
	Preview       *models.Provider    `json:"previewBarber,omitempty"`
	TotalPrice    decimal.Decimal     `json:"totalPrice"`
	TotalDuration int                 `json:"totalDuration"`
	Customer      models.CustomerInfo `json:"customer"`
	StaffBooking  bool                `json:"staffBooking"`
}

// Summary loads the preview if one applies and returns the review data.
func (w *Wizard) Summary(ctx context.Context) Summary {
	preview := w.LoadPreview(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	return Summary{
		Draft:         w.draft.Clone(),
		Preview:       preview,
		TotalPrice:    w.draft.TotalPrice(),
		TotalDuration: w.draft.TotalDuration(),
		Customer:      w.customer,
		StaffBooking:  w.actor.Staff,
	}
}

// Close tears the wizard down. Results of calls still in flight are
// discarded when they arrive.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}
