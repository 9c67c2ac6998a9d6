package payment

import (
	"context"
	"sync"

	"barberbook/models"

	"go.uber.org/zap"
)

// FormState is the lifecycle of a hosted card form.
type FormState int

const (
	FormLoading FormState = iota
	FormReady
	FormError
)

func (s FormState) String() string {
	switch s {
	case FormReady:
		return "ready"
	case FormError:
		return "error"
	}
	return "loading"
}

// HostedElement is the processor-hosted card form.
type HostedElement interface {
	// Complete reports whether the user finished entering card details.
	Complete() bool
	// CreatePaymentMethod confirms the setup intent and returns the handle.
	CreatePaymentMethod(ctx context.Context, clientSecret string) (*models.TokenizedCard, error)
}

// HostedCard verifies a card collected by a HostedElement. The form is
// usable only once its setup intent exists.
type HostedCard struct {
	processor Processor
	logger    *zap.Logger

	mu         sync.Mutex
	holder     models.CardHolder
	element    HostedElement
	state      FormState
	preparing  bool
	intent     *models.SetupIntent
	prepareErr error
	consent    bool
	processing bool
}

func NewHostedCard(processor Processor, element HostedElement, holder models.CardHolder, logger *zap.Logger) *HostedCard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HostedCard{processor: processor, element: element, holder: holder, logger: logger}
}

// Prepare creates the setup intent. A failure is terminal for this form;
// later calls return the same error without retrying.
func (h *HostedCard) Prepare(ctx context.Context) error {
	h.mu.Lock()
	switch {
	case h.state == FormReady:
		h.mu.Unlock()
		return nil
	case h.state == FormError:
		err := h.prepareErr
		h.mu.Unlock()
		return err
	case h.preparing:
		h.mu.Unlock()
		return models.ErrNotReady
	}
	h.preparing = true
	h.mu.Unlock()

	intent, err := h.processor.CreateSetupIntent(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.preparing = false
	if err != nil {
		h.logger.Error("setup intent creation failed", zap.Error(err))
		h.state = FormError
		h.prepareErr = &models.LoadError{Message: failureMessage(err, msgSetupFailed), Err: err}
		return h.prepareErr
	}
	h.intent = intent
	h.state = FormReady
	return nil
}

func (h *HostedCard) State() FormState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// ClientSecret is empty until the form is ready.
func (h *HostedCard) ClientSecret() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.intent == nil {
		return ""
	}
	return h.intent.ClientSecret
}

func (h *HostedCard) SetConsent(consent bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.consent = consent
}

// SetHolder replaces the cardholder sent with verification. Staff enter
// the customer's details after the form may already exist.
func (h *HostedCard) SetHolder(holder models.CardHolder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.holder = holder
}

// SetElement swaps the hosted element, e.g. when the browser posts a new
// payment method for the same form.
func (h *HostedCard) SetElement(element HostedElement) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.element = element
}

func (h *HostedCard) Verify(ctx context.Context) (*models.PaymentVerification, error) {
	h.mu.Lock()
	switch {
	case h.state == FormLoading:
		h.mu.Unlock()
		return nil, models.ErrNotReady
	case h.state == FormError:
		err := h.prepareErr
		h.mu.Unlock()
		return nil, err
	case h.processing:
		h.mu.Unlock()
		return nil, models.ErrBusy
	case h.element == nil || !h.element.Complete():
		h.mu.Unlock()
		return nil, &models.ValidationError{Field: "card", Message: "Please complete your card details"}
	case !h.consent:
		h.mu.Unlock()
		return nil, &models.ValidationError{Field: "consent", Message: msgConsentRequired}
	}
	h.processing = true
	element, secret, holder := h.element, h.intent.ClientSecret, h.holder
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.processing = false
		h.mu.Unlock()
	}()

	token, err := element.CreatePaymentMethod(ctx, secret)
	if err != nil {
		h.logger.Warn("hosted card confirmation failed", zap.Error(err))
		return nil, &models.AuthorizationError{Message: failureMessage(err, msgTokenizeFailed), Err: err}
	}
	return verifyToken(ctx, h.processor, token, holder, h.logger)
}

// PaymentMethodDescriber looks up display details of a payment method.
type PaymentMethodDescriber interface {
	Describe(ctx context.Context, paymentMethodID string) (*models.TokenizedCard, error)
}

// SubmittedElement is a hosted element whose card the browser already
// confirmed; it only carries the resulting payment method id.
type SubmittedElement struct {
	PaymentMethodID string
	Describer       PaymentMethodDescriber // optional
}

func (e SubmittedElement) Complete() bool {
	return e.PaymentMethodID != ""
}

func (e SubmittedElement) CreatePaymentMethod(ctx context.Context, _ string) (*models.TokenizedCard, error) {
	if e.Describer == nil {
		return &models.TokenizedCard{PaymentMethodID: e.PaymentMethodID}, nil
	}
	return e.Describer.Describe(ctx, e.PaymentMethodID)
}
