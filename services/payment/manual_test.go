package payment

import (
	"context"
	"errors"
	"testing"

	"barberbook/models"
	"barberbook/services/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validCard() models.CardDetails {
	return models.CardDetails{Number: "4242 4242 4242 4242", Expiry: "12/30", CVC: "123", CardholderName: "Ann Lee"}
}

func TestManualCard_NoConsentNoNetwork(t *testing.T) {
	proc := new(mockProcessor)
	m := NewManualCard(proc, "ann@example.com", nil)
	m.SetCard(validCard())

	v, err := m.Verify(context.Background())
	assert.Nil(t, v)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "consent", ve.Field)
	proc.AssertNotCalled(t, "Tokenize", mock.Anything, mock.Anything)
	proc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestManualCard_MissingFieldsNoNetwork(t *testing.T) {
	proc := new(mockProcessor)
	m := NewManualCard(proc, "", nil)
	m.SetConsent(true)
	m.SetCard(models.CardDetails{Number: "4242424242424242"})

	_, err := m.Verify(context.Background())
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "card", ve.Field)
	proc.AssertNotCalled(t, "Tokenize", mock.Anything, mock.Anything)
}

func TestManualCard_TokenizeThenVerify(t *testing.T) {
	proc := new(mockProcessor)
	card := validCard()
	sent := card
	sent.Number = "4242424242424242"

	proc.On("Tokenize", mock.Anything, sent).
		Return(&models.TokenizedCard{PaymentMethodID: "pm_1", Brand: "visa", Last4: "4242"}, nil).Once()
	proc.On("Verify", mock.Anything, "pm_1", models.CardHolder{Email: "ann@example.com", Name: "Ann Lee"}).
		Return(&models.PaymentVerification{CustomerID: "cus_1"}, nil).Once()

	m := NewManualCard(proc, "ann@example.com", nil)
	m.SetCard(card)
	m.SetConsent(true)

	v, err := m.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cus_1", v.CustomerID)
	assert.Equal(t, "pm_1", v.PaymentMethodID)
	assert.Equal(t, "visa", v.CardBrand)
	assert.Equal(t, "4242", v.CardLast4)
	assert.False(t, m.Processing())
	proc.AssertExpectations(t)
}

func TestManualCard_TokenizeFailureSkipsVerify(t *testing.T) {
	proc := new(mockProcessor)
	proc.On("Tokenize", mock.Anything, mock.Anything).Return(nil, errors.New("network down"))

	m := NewManualCard(proc, "", nil)
	m.SetCard(validCard())
	m.SetConsent(true)

	_, err := m.Verify(context.Background())
	var ae *models.AuthorizationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Failed to verify card", ae.Message)
	proc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestManualCard_VerifySurfacesBackendMessage(t *testing.T) {
	proc := new(mockProcessor)
	proc.On("Tokenize", mock.Anything, mock.Anything).Return(&models.TokenizedCard{PaymentMethodID: "pm_1"}, nil)
	proc.On("Verify", mock.Anything, "pm_1", mock.Anything).
		Return(nil, &backend.APIError{Status: 500, Message: "Your card was declined."})

	m := NewManualCard(proc, "", nil)
	m.SetCard(validCard())
	m.SetConsent(true)

	_, err := m.Verify(context.Background())
	var ae *models.AuthorizationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Your card was declined.", ae.Message)
}
