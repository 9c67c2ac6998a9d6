package payment

import (
	"context"

	"barberbook/models"

	"github.com/stretchr/testify/mock"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) CreateSetupIntent(ctx context.Context) (*models.SetupIntent, error) {
	args := m.Called(ctx)
	si, _ := args.Get(0).(*models.SetupIntent)
	return si, args.Error(1)
}

func (m *mockProcessor) Tokenize(ctx context.Context, card models.CardDetails) (*models.TokenizedCard, error) {
	args := m.Called(ctx, card)
	t, _ := args.Get(0).(*models.TokenizedCard)
	return t, args.Error(1)
}

func (m *mockProcessor) Verify(ctx context.Context, paymentMethodID string, holder models.CardHolder) (*models.PaymentVerification, error) {
	args := m.Called(ctx, paymentMethodID, holder)
	v, _ := args.Get(0).(*models.PaymentVerification)
	return v, args.Error(1)
}

type mockElement struct {
	mock.Mock
}

func (m *mockElement) Complete() bool {
	return m.Called().Bool(0)
}

func (m *mockElement) CreatePaymentMethod(ctx context.Context, clientSecret string) (*models.TokenizedCard, error) {
	args := m.Called(ctx, clientSecret)
	t, _ := args.Get(0).(*models.TokenizedCard)
	return t, args.Error(1)
}
