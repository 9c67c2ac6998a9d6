package backend

import (
	"context"
	"net/http"

	"barberbook/models"
)

// CreateSetupIntent asks the backend for a setup intent to save a card.
func (c *Client) CreateSetupIntent(ctx context.Context) (*models.SetupIntent, error) {
	var data struct {
		ClientSecret  string `json:"clientSecret"`
		SetupIntentID string `json:"setupIntentId"`
	}
	err := c.do(ctx, request{method: http.MethodPost, path: "/payments/create-setup-intent"}, &data)
	if err != nil {
		return nil, err
	}
	return &models.SetupIntent{ID: data.SetupIntentID, ClientSecret: data.ClientSecret}, nil
}

// VerifyCard has the backend run a small authorization against the saved
// payment method and attach it to a customer.
func (c *Client) VerifyCard(ctx context.Context, paymentMethodID string, holder models.CardHolder) (*models.PaymentVerification, error) {
	var data struct {
		CustomerID      string `json:"customerId"`
		PaymentMethodID string `json:"paymentMethodId"`
		CardBrand       string `json:"cardBrand"`
		CardLast4       string `json:"cardLast4"`
		Verified        bool   `json:"verified"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/payments/verify-card",
		body: map[string]string{
			"paymentMethodId": paymentMethodID,
			"email":           holder.Email,
			"name":            holder.Name,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	if !data.Verified {
		return nil, &APIError{Status: http.StatusPaymentRequired, Message: "Card verification failed"}
	}
	return &models.PaymentVerification{
		CustomerID:      data.CustomerID,
		PaymentMethodID: data.PaymentMethodID,
		CardBrand:       data.CardBrand,
		CardLast4:       data.CardLast4,
	}, nil
}
