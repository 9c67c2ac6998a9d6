// Package payment verifies a card with a small, immediately released
// authorization before a booking is submitted.
package payment

import (
	"context"
	"errors"

	"barberbook/models"
	"barberbook/services/backend"

	"github.com/stripe/stripe-go/v76"
)

// Authorizer is the contract both card strategies satisfy. A nil
// verification always comes with a non-nil error.
type Authorizer interface {
	Verify(ctx context.Context) (*models.PaymentVerification, error)
}

// Tokenizer turns raw card fields into a processor payment-method handle.
type Tokenizer interface {
	Tokenize(ctx context.Context, card models.CardDetails) (*models.TokenizedCard, error)
}

// Processor is the remote payment service.
type Processor interface {
	Tokenizer
	CreateSetupIntent(ctx context.Context) (*models.SetupIntent, error)
	Verify(ctx context.Context, paymentMethodID string, holder models.CardHolder) (*models.PaymentVerification, error)
}

// Messages shown when the processor gives no text of its own.
const (
	msgConsentRequired = "Please accept the payment authorization terms"
	msgTokenizeFailed  = "Failed to verify card"
	msgVerifyFailed    = "Card verification failed"
	msgSetupFailed     = "Failed to initialize payment"
)

// failureMessage prefers the processor's own text over fallback.
func failureMessage(err error, fallback string) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return backend.MessageOf(err, fallback)
}
