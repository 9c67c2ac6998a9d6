package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"barberbook/middleware"
	"barberbook/models"
	"barberbook/services/catalog"
	"barberbook/services/payment"
	"barberbook/services/session"
	"barberbook/services/wizard"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Payment strategies.
const (
	StrategyManual = "manual"
	StrategyHosted = "hosted"
)

type liveSession struct {
	wizard   *wizard.Wizard
	hosted   *payment.HostedCard
	lastUsed time.Time
}

// BookingHandler exposes the booking wizard. Live wizards are kept in
// memory; their state is mirrored to the session store after every change
// so another process can pick the session up.
type BookingHandler struct {
	deps      wizard.Deps
	store     session.Store
	processor payment.Processor
	strategy  string
	logger    *zap.Logger

	mu   sync.Mutex
	live map[string]*liveSession
}

func NewBookingHandler(deps wizard.Deps, store session.Store, processor payment.Processor, strategy string, logger *zap.Logger) *BookingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strategy != StrategyHosted {
		strategy = StrategyManual
	}
	deps.Navigator = ctxNavigator{}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return &BookingHandler{
		deps:      deps,
		store:     store,
		processor: processor,
		strategy:  strategy,
		logger:    logger,
		live:      make(map[string]*liveSession),
	}
}

func actorFrom(c *gin.Context) wizard.Actor {
	return wizard.Actor{
		UserID: c.GetString(middleware.CtxUserID),
		Email:  c.GetString(middleware.CtxEmail),
		Staff:  c.GetBool(middleware.CtxIsStaff),
	}
}

// session returns the caller's wizard for the :id path parameter.
func (h *BookingHandler) session(c *gin.Context) (*liveSession, error) {
	id := c.Param("id")
	actor := actorFrom(c)

	h.mu.Lock()
	ls, ok := h.live[id]
	if ok {
		ls.lastUsed = time.Now()
	}
	h.mu.Unlock()
	if ok {
		if ls.wizard.Actor().UserID != actor.UserID || ls.wizard.Closed() {
			return nil, session.ErrNotFound
		}
		return ls, nil
	}

	snap, err := h.store.Load(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if snap.Actor.UserID != actor.UserID {
		return nil, session.ErrNotFound
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if ls, ok := h.live[id]; ok {
		return ls, nil
	}
	ls = &liveSession{wizard: wizard.Restore(*snap, h.deps), lastUsed: time.Now()}
	h.live[id] = ls
	return ls, nil
}

func (h *BookingHandler) save(ctx context.Context, w *wizard.Wizard) {
	if err := h.store.Save(ctx, w.Snapshot()); err != nil {
		h.logger.Error("failed to save booking session", zap.String("session", w.ID()), zap.Error(err))
	}
}

func (h *BookingHandler) drop(ctx context.Context, id string) {
	h.mu.Lock()
	delete(h.live, id)
	h.mu.Unlock()
	if err := h.store.Delete(ctx, id); err != nil {
		h.logger.Warn("failed to delete booking session", zap.String("session", id), zap.Error(err))
	}
}

// Sweep closes live wizards idle for longer than maxIdle.
func (h *BookingHandler) Sweep(maxIdle time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for id, ls := range h.live {
		if time.Since(ls.lastUsed) > maxIdle {
			ls.wizard.Close()
			delete(h.live, id)
			n++
		}
	}
	return n
}

type sessionView struct {
	ID            string              `json:"id"`
	Step          wizard.Step         `json:"step"`
	Draft         models.DraftBooking `json:"draft"`
	Progress      wizard.Progress     `json:"progress"`
	Customer      models.CustomerInfo `json:"customer"`
	StaffBooking  bool                `json:"staffBooking"`
	PaymentMethod string              `json:"paymentStrategy"`
}

func (h *BookingHandler) view(w *wizard.Wizard) sessionView {
	return sessionView{
		ID:            w.ID(),
		Step:          w.Step(),
		Draft:         w.Draft(),
		Progress:      w.Progress(),
		Customer:      w.Customer(),
		StaffBooking:  w.Actor().Staff,
		PaymentMethod: h.strategy,
	}
}

type createSessionRequest struct {
	BarberID     *int        `json:"barberId"`
	AnyAvailable bool        `json:"anyAvailable"`
	ServiceIDs   []int       `json:"serviceIds"`
	StartAtStep  wizard.Step `json:"startAtStep"`
}

// CreateSession starts a wizard, optionally preselected from "book again".
func (h *BookingHandler) CreateSession(c *gin.Context) {
	ctx := requestContext(c, false)
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, &models.ValidationError{Field: "body", Message: "Invalid request body", Err: err})
			return
		}
	}

	id := uuid.NewString()
	actor := actorFrom(c)
	var w *wizard.Wizard
	switch {
	case req.BarberID != nil || req.AnyAvailable || len(req.ServiceIDs) > 0:
		pre := wizard.Preselection{ServiceIDs: req.ServiceIDs, StartAt: req.StartAtStep}
		if req.AnyAvailable {
			sentinel := models.AnyAvailable()
			pre.Provider = &sentinel
		} else if req.BarberID != nil {
			p, ok := h.deps.Catalog.ProviderByID(*req.BarberID)
			if !ok {
				fail(c, &models.ValidationError{Field: "barberId", Message: "Unknown barber"})
				return
			}
			pre.Provider = &p
		}
		w = wizard.NewWithPreselection(id, actor, h.deps, pre)
	default:
		w = wizard.New(id, actor, h.deps)
	}

	h.mu.Lock()
	h.live[id] = &liveSession{wizard: w, lastUsed: time.Now()}
	h.mu.Unlock()
	h.save(ctx, w)

	getLogger(c).Info("booking session started", zap.String("session", id), zap.Bool("staff", actor.Staff))
	respond(c, http.StatusCreated, "", h.view(w))
}

func (h *BookingHandler) GetSession(c *gin.Context) {
	requestContext(c, false)
	ls, err := h.session(c)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", h.view(ls.wizard))
}

// mutate runs fn against the caller's wizard and persists the result.
func (h *BookingHandler) mutate(c *gin.Context, fn func(ctx context.Context, w *wizard.Wizard) error) {
	ctx := requestContext(c, false)
	ls, err := h.session(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := fn(ctx, ls.wizard); err != nil {
		fail(c, err)
		return
	}
	h.save(ctx, ls.wizard)
	respond(c, http.StatusOK, "", h.view(ls.wizard))
}

func bindBody(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return &models.ValidationError{Field: "body", Message: "Invalid request body", Err: err}
	}
	return nil
}

type providerRequest struct {
	BarberID *int `json:"barberId"`
}

// SetProvider selects a barber by id, or "Any Available" when barberId is null.
func (h *BookingHandler) SetProvider(c *gin.Context) {
	var req providerRequest
	if err := bindBody(c, &req); err != nil {
		fail(c, err)
		return
	}
	h.mutate(c, func(ctx context.Context, w *wizard.Wizard) error {
		if req.BarberID == nil {
			return w.SelectProvider(models.AnyAvailable())
		}
		candidates, err := w.EligibleProviders(ctx)
		if err != nil {
			return err
		}
		for _, p := range candidates {
			if !p.IsSentinel() && p.IDValue() == *req.BarberID {
				return w.SelectProvider(p)
			}
		}
		if p, ok := h.deps.Catalog.ProviderByID(*req.BarberID); ok {
			return w.SelectProvider(p)
		}
		return &models.ValidationError{Field: "barberId", Message: "Unknown barber"}
	})
}

type servicesRequest struct {
	ServiceIDs *[]int `json:"serviceIds"`
	Toggle     *int   `json:"toggle"`
}

// SetServices replaces the selection, or toggles one service.
func (h *BookingHandler) SetServices(c *gin.Context) {
	var req servicesRequest
	if err := bindBody(c, &req); err != nil {
		fail(c, err)
		return
	}
	h.mutate(c, func(_ context.Context, w *wizard.Wizard) error {
		switch {
		case req.Toggle != nil:
			return w.ToggleService(*req.Toggle)
		case req.ServiceIDs != nil:
			return w.SetServices(*req.ServiceIDs)
		}
		return &models.ValidationError{Field: "serviceIds", Message: "Provide serviceIds or toggle"}
	})
}

type dateRequest struct {
	Date string `json:"date"`
}

func (h *BookingHandler) SetDate(c *gin.Context) {
	var req dateRequest
	if err := bindBody(c, &req); err != nil {
		fail(c, err)
		return
	}
	h.mutate(c, func(_ context.Context, w *wizard.Wizard) error {
		return w.SelectDate(req.Date)
	})
}

type timeRequest struct {
	Time models.TimeSlot `json:"time"`
}

func (h *BookingHandler) SetTime(c *gin.Context) {
	var req timeRequest
	if err := bindBody(c, &req); err != nil {
		fail(c, err)
		return
	}
	h.mutate(c, func(_ context.Context, w *wizard.Wizard) error {
		return w.SelectTime(req.Time)
	})
}

// SetCustomer records walk-in customer details for staff bookings.
func (h *BookingHandler) SetCustomer(c *gin.Context) {
	var req models.CustomerInfo
	if err := bindBody(c, &req); err != nil {
		fail(c, err)
		return
	}
	h.mutate(c, func(_ context.Context, w *wizard.Wizard) error {
		return w.SetCustomer(req)
	})
}

func (h *BookingHandler) Next(c *gin.Context) {
	h.mutate(c, func(_ context.Context, w *wizard.Wizard) error {
		_, err := w.Next()
		return err
	})
}

func (h *BookingHandler) Back(c *gin.Context) {
	h.mutate(c, func(_ context.Context, w *wizard.Wizard) error {
		_, err := w.Back()
		return err
	})
}

// ListProviders returns the barbers eligible for the current draft.
func (h *BookingHandler) ListProviders(c *gin.Context) {
	ctx := requestContext(c, false)
	ls, err := h.session(c)
	if err != nil {
		fail(c, err)
		return
	}
	providers, err := ls.wizard.EligibleProviders(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", providers)
}

// ListSlots returns the time grid for the selected date.
func (h *BookingHandler) ListSlots(c *gin.Context) {
	requestContext(c, false)
	ls, err := h.session(c)
	if err != nil {
		fail(c, err)
		return
	}
	am, pm := catalog.SplitAMPM(ls.wizard.TimeSlots())
	respond(c, http.StatusOK, "", gin.H{"am": slotViews(am), "pm": slotViews(pm)})
}

func (h *BookingHandler) Summary(c *gin.Context) {
	ctx := requestContext(c, false)
	ls, err := h.session(c)
	if err != nil {
		fail(c, err)
		return
	}
	summary := ls.wizard.Summary(ctx)
	h.save(ctx, ls.wizard)
	respond(c, http.StatusOK, "", summary)
}

func (h *BookingHandler) holder(w *wizard.Wizard, name string) models.CardHolder {
	holder := models.CardHolder{Email: w.Actor().Email, Name: name}
	if w.Actor().Staff {
		customer := w.Customer()
		holder.Email = customer.Email
		if holder.Name == "" {
			holder.Name = customer.FullName()
		}
	}
	return holder
}

func (h *BookingHandler) describer() payment.PaymentMethodDescriber {
	d, _ := h.processor.(payment.PaymentMethodDescriber)
	return d
}

// hostedCard returns the session's hosted form, creating and preparing it
// on first use.
func (h *BookingHandler) hostedCard(ctx context.Context, ls *liveSession, name string) (*payment.HostedCard, error) {
	h.mu.Lock()
	card := ls.hosted
	if card == nil {
		card = payment.NewHostedCard(h.processor, nil, h.holder(ls.wizard, name), h.logger)
		ls.hosted = card
	}
	h.mu.Unlock()
	return card, card.Prepare(ctx)
}

// CreateSetupIntent prepares the hosted card form for the session.
func (h *BookingHandler) CreateSetupIntent(c *gin.Context) {
	ctx := requestContext(c, false)
	ls, err := h.session(c)
	if err != nil {
		fail(c, err)
		return
	}
	if h.strategy != StrategyHosted {
		fail(c, &models.ValidationError{Field: "paymentStrategy", Message: "Card details are collected directly for this shop"})
		return
	}
	card, err := h.hostedCard(ctx, ls, "")
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"clientSecret": card.ClientSecret(), "state": card.State().String()})
}

type submitRequest struct {
	Consent         bool               `json:"consent"`
	Card            models.CardDetails `json:"card"`
	PaymentMethodID string             `json:"paymentMethodId"`
}

func (h *BookingHandler) authorizer(ctx context.Context, ls *liveSession, req submitRequest) (payment.Authorizer, error) {
	if h.strategy == StrategyHosted {
		card, err := h.hostedCard(ctx, ls, "")
		if err != nil {
			return nil, err
		}
		card.SetHolder(h.holder(ls.wizard, ""))
		card.SetElement(payment.SubmittedElement{PaymentMethodID: req.PaymentMethodID, Describer: h.describer()})
		card.SetConsent(req.Consent)
		return card, nil
	}
	card := payment.NewManualCard(h.processor, h.holder(ls.wizard, req.Card.CardholderName).Email, h.logger)
	card.SetCard(req.Card)
	card.SetConsent(req.Consent)
	return card, nil
}

// Submit verifies the card and creates the booking.
func (h *BookingHandler) Submit(c *gin.Context) {
	ctx := requestContext(c, false)
	var req submitRequest
	if err := bindBody(c, &req); err != nil {
		fail(c, err)
		return
	}
	ls, err := h.session(c)
	if err != nil {
		fail(c, err)
		return
	}

	auth, err := h.authorizer(ctx, ls, req)
	if err != nil {
		fail(c, err)
		return
	}
	result, err := ls.wizard.Submit(ctx, auth)
	if err != nil {
		if !errors.Is(err, models.ErrClosed) {
			h.save(ctx, ls.wizard)
		}
		fail(c, err)
		return
	}

	h.drop(ctx, ls.wizard.ID())
	respond(c, http.StatusCreated, result.Message, result)
}

// DeleteSession abandons the wizard.
func (h *BookingHandler) DeleteSession(c *gin.Context) {
	ctx := requestContext(c, false)
	ls, err := h.session(c)
	if err != nil {
		fail(c, err)
		return
	}
	ls.wizard.Close()
	h.drop(ctx, ls.wizard.ID())
	respond(c, http.StatusOK, "Booking session closed", nil)
}
