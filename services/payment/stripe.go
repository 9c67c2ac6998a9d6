package payment

import (
	"context"
	"fmt"

	"barberbook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// The slices of the stripe client this package calls. *client.API's
// sub-clients satisfy them.
type (
	paymentMethodAPI interface {
		New(params *stripe.PaymentMethodParams) (*stripe.PaymentMethod, error)
		Get(id string, params *stripe.PaymentMethodParams) (*stripe.PaymentMethod, error)
		Attach(id string, params *stripe.PaymentMethodAttachParams) (*stripe.PaymentMethod, error)
	}
	customerAPI interface {
		New(params *stripe.CustomerParams) (*stripe.Customer, error)
		Update(id string, params *stripe.CustomerParams) (*stripe.Customer, error)
	}
	paymentIntentAPI interface {
		New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
		Cancel(id string, params *stripe.PaymentIntentCancelParams) (*stripe.PaymentIntent, error)
	}
	setupIntentAPI interface {
		New(params *stripe.SetupIntentParams) (*stripe.SetupIntent, error)
	}
)

// StripeOptions tunes the verification hold.
type StripeOptions struct {
	AmountCents int64
	Currency    string
}

// StripeProcessor talks to Stripe directly.
type StripeProcessor struct {
	paymentMethods paymentMethodAPI
	customers      customerAPI
	paymentIntents paymentIntentAPI
	setupIntents   setupIntentAPI
	amount         int64
	currency       string
	logger         *zap.Logger
}

func NewStripeProcessor(secretKey string, opts StripeOptions, logger *zap.Logger) *StripeProcessor {
	sc := client.New(secretKey, nil)
	return newStripeProcessor(sc.PaymentMethods, sc.Customers, sc.PaymentIntents, sc.SetupIntents, opts, logger)
}

func newStripeProcessor(pm paymentMethodAPI, cu customerAPI, pi paymentIntentAPI, si setupIntentAPI, opts StripeOptions, logger *zap.Logger) *StripeProcessor {
	if opts.AmountCents <= 0 {
		opts.AmountCents = 100
	}
	if opts.Currency == "" {
		opts.Currency = string(stripe.CurrencyUSD)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeProcessor{
		paymentMethods: pm,
		customers:      cu,
		paymentIntents: pi,
		setupIntents:   si,
		amount:         opts.AmountCents,
		currency:       opts.Currency,
		logger:         logger,
	}
}

func (s *StripeProcessor) CreateSetupIntent(ctx context.Context) (*models.SetupIntent, error) {
	params := &stripe.SetupIntentParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Usage:              stripe.String(string(stripe.SetupIntentUsageOffSession)),
	}
	params.Context = ctx
	si, err := s.setupIntents.New(params)
	if err != nil {
		return nil, err
	}
	return &models.SetupIntent{ID: si.ID, ClientSecret: si.ClientSecret}, nil
}

func (s *StripeProcessor) Tokenize(ctx context.Context, card models.CardDetails) (*models.TokenizedCard, error) {
	month, year, ok := ParseExpiry(card.Expiry)
	if !ok {
		return nil, &models.ValidationError{Field: "expiry", Message: "Expiry must be a valid MM/YY date"}
	}
	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(digitsOnly(card.Number)),
			ExpMonth: stripe.Int64(int64(month)),
			ExpYear:  stripe.Int64(int64(year)),
			CVC:      stripe.String(card.CVC),
		},
		BillingDetails: &stripe.PaymentMethodBillingDetailsParams{
			Name: stripe.String(card.CardholderName),
		},
	}
	params.Context = ctx
	pm, err := s.paymentMethods.New(params)
	if err != nil {
		return nil, err
	}
	return tokenFromPaymentMethod(pm), nil
}

// Describe fetches brand and last four digits of an existing payment method.
func (s *StripeProcessor) Describe(ctx context.Context, paymentMethodID string) (*models.TokenizedCard, error) {
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx
	pm, err := s.paymentMethods.Get(paymentMethodID, params)
	if err != nil {
		return nil, err
	}
	return tokenFromPaymentMethod(pm), nil
}

func tokenFromPaymentMethod(pm *stripe.PaymentMethod) *models.TokenizedCard {
	t := &models.TokenizedCard{PaymentMethodID: pm.ID, Brand: "card", Last4: "****"}
	if pm.Card != nil {
		t.Brand = string(pm.Card.Brand)
		t.Last4 = pm.Card.Last4
	}
	return t
}

// Verify saves the payment method on a new customer and places a manual
// capture hold that is cancelled straight away.
func (s *StripeProcessor) Verify(ctx context.Context, paymentMethodID string, holder models.CardHolder) (*models.PaymentVerification, error) {
	custParams := &stripe.CustomerParams{}
	if holder.Email != "" {
		custParams.Email = stripe.String(holder.Email)
	}
	if holder.Name != "" {
		custParams.Name = stripe.String(holder.Name)
	}
	custParams.Context = ctx
	cust, err := s.customers.New(custParams)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	attachParams := &stripe.PaymentMethodAttachParams{Customer: stripe.String(cust.ID)}
	attachParams.Context = ctx
	pm, err := s.paymentMethods.Attach(paymentMethodID, attachParams)
	if err != nil {
		return nil, fmt.Errorf("attach payment method: %w", err)
	}

	updateParams := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	updateParams.Context = ctx
	if _, err := s.customers.Update(cust.ID, updateParams); err != nil {
		s.logger.Warn("failed to set default payment method", zap.String("customer", cust.ID), zap.Error(err))
	}

	piParams := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(s.amount),
		Currency:           stripe.String(s.currency),
		Customer:           stripe.String(cust.ID),
		PaymentMethod:      stripe.String(paymentMethodID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CaptureMethod:      stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Confirm:            stripe.Bool(true),
		Description:        stripe.String("Card verification (will not be charged)"),
	}
	piParams.AddMetadata("type", "card_verification")
	piParams.Context = ctx
	pi, err := s.paymentIntents.New(piParams)
	if err != nil {
		return nil, err
	}

	if pi.Status != stripe.PaymentIntentStatusRequiresCapture {
		return nil, fmt.Errorf("verification hold ended in status %q", pi.Status)
	}
	cancelParams := &stripe.PaymentIntentCancelParams{}
	cancelParams.Context = ctx
	if _, err := s.paymentIntents.Cancel(pi.ID, cancelParams); err != nil {
		// The hold expires on its own; the card itself is verified.
		s.logger.Warn("failed to release verification hold", zap.String("paymentIntent", pi.ID), zap.Error(err))
	}

	token := tokenFromPaymentMethod(pm)
	s.logger.Info("card verified with processor",
		zap.String("customer", cust.ID), zap.String("paymentIntent", pi.ID))
	return &models.PaymentVerification{
		CustomerID:      cust.ID,
		PaymentMethodID: paymentMethodID,
		CardBrand:       token.Brand,
		CardLast4:       token.Last4,
	}, nil
}
