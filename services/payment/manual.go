package payment

import (
	"context"
	"strings"
	"sync"

	"barberbook/models"

	"go.uber.org/zap"
)

// ManualCard collects raw card fields and hands them to the processor.
type ManualCard struct {
	processor Processor
	email     string
	logger    *zap.Logger

	mu         sync.Mutex
	card       models.CardDetails
	consent    bool
	processing bool
}

// NewManualCard returns a manual strategy. email is the card holder's
// address sent along with verification; it may be empty.
func NewManualCard(processor Processor, email string, logger *zap.Logger) *ManualCard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManualCard{processor: processor, email: email, logger: logger}
}

func (m *ManualCard) SetCard(card models.CardDetails) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.card = card
}

func (m *ManualCard) SetConsent(consent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consent = consent
}

// Processing reports whether a verification is in flight.
func (m *ManualCard) Processing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processing
}

// Verify tokenizes the card and then runs the verification hold. Nothing
// reaches the network unless every field is present, in range and consent
// is given.
func (m *ManualCard) Verify(ctx context.Context) (*models.PaymentVerification, error) {
	m.mu.Lock()
	if m.processing {
		m.mu.Unlock()
		return nil, models.ErrBusy
	}
	card, consent := m.card, m.consent
	if missingCardFields(card) {
		m.mu.Unlock()
		return nil, &models.ValidationError{Field: "card", Message: "Please fill in all card details"}
	}
	if !consent {
		m.mu.Unlock()
		return nil, &models.ValidationError{Field: "consent", Message: msgConsentRequired}
	}
	if err := ValidateCard(card); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.processing = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.processing = false
		m.mu.Unlock()
	}()

	card.Number = digitsOnly(card.Number)
	token, err := m.processor.Tokenize(ctx, card)
	if err != nil {
		m.logger.Warn("card tokenization failed", zap.Error(err))
		return nil, &models.AuthorizationError{Message: failureMessage(err, msgTokenizeFailed), Err: err}
	}

	holder := models.CardHolder{Email: m.email, Name: strings.TrimSpace(card.CardholderName)}
	return verifyToken(ctx, m.processor, token, holder, m.logger)
}

// verifyToken is the second round trip shared by both strategies.
func verifyToken(ctx context.Context, p Processor, token *models.TokenizedCard, holder models.CardHolder, logger *zap.Logger) (*models.PaymentVerification, error) {
	v, err := p.Verify(ctx, token.PaymentMethodID, holder)
	if err != nil {
		logger.Warn("card verification failed",
			zap.String("paymentMethodID", token.PaymentMethodID), zap.Error(err))
		return nil, &models.AuthorizationError{Message: failureMessage(err, msgVerifyFailed), Err: err}
	}
	if v.PaymentMethodID == "" {
		v.PaymentMethodID = token.PaymentMethodID
	}
	if v.CardBrand == "" {
		v.CardBrand = token.Brand
	}
	if v.CardLast4 == "" {
		v.CardLast4 = token.Last4
	}
	logger.Info("card verified",
		zap.String("paymentMethodID", v.PaymentMethodID), zap.String("brand", v.CardBrand))
	return v, nil
}
