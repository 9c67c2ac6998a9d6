package payment

import (
	"context"

	"barberbook/models"
)

// Gateway is the scheduling backend's payment endpoints.
type Gateway interface {
	CreateSetupIntent(ctx context.Context) (*models.SetupIntent, error)
	VerifyCard(ctx context.Context, paymentMethodID string, holder models.CardHolder) (*models.PaymentVerification, error)
}

// GatewayProcessor tokenizes with the card processor and leaves setup
// intents and verification to the scheduling backend.
type GatewayProcessor struct {
	tokenizer Tokenizer
	gateway   Gateway
}

func NewGatewayProcessor(tokenizer Tokenizer, gateway Gateway) *GatewayProcessor {
	return &GatewayProcessor{tokenizer: tokenizer, gateway: gateway}
}

func (g *GatewayProcessor) Tokenize(ctx context.Context, card models.CardDetails) (*models.TokenizedCard, error) {
	return g.tokenizer.Tokenize(ctx, card)
}

func (g *GatewayProcessor) CreateSetupIntent(ctx context.Context) (*models.SetupIntent, error) {
	return g.gateway.CreateSetupIntent(ctx)
}

func (g *GatewayProcessor) Verify(ctx context.Context, paymentMethodID string, holder models.CardHolder) (*models.PaymentVerification, error) {
	return g.gateway.VerifyCard(ctx, paymentMethodID, holder)
}

// Describe delegates to the tokenizer when it can look payment methods up.
func (g *GatewayProcessor) Describe(ctx context.Context, paymentMethodID string) (*models.TokenizedCard, error) {
	if d, ok := g.tokenizer.(PaymentMethodDescriber); ok {
		return d.Describe(ctx, paymentMethodID)
	}
	return &models.TokenizedCard{PaymentMethodID: paymentMethodID}, nil
}
