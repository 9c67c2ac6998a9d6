package models

// CardDetails are the raw fields of the manual card form.
type CardDetails struct {
	Number         string `json:"cardNumber"`
	Expiry         string `json:"expiry"` // MM/YY
	CVC            string `json:"cvc"`
	CardholderName string `json:"cardholderName"`
}

// CardHolder identifies who the saved card belongs to.
type CardHolder struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// TokenizedCard is the processor handle returned by tokenization.
type TokenizedCard struct {
	PaymentMethodID string `json:"paymentMethodId"`
	Brand           string `json:"cardBrand"`
	Last4           string `json:"cardLast4"`
}

// SetupIntent is a pending request to save a card without charging it.
type SetupIntent struct {
	ID           string `json:"setupIntentId"`
	ClientSecret string `json:"clientSecret"`
}

// PaymentVerification is the result of a successful card verification.
// It lives only for the submission attempt that produced it.
type PaymentVerification struct {
	CustomerID      string `json:"customerId"`
	PaymentMethodID string `json:"paymentMethodId"`
	CardBrand       string `json:"cardBrand"`
	CardLast4       string `json:"cardLast4"`
}
