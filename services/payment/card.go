package payment

import (
	"strconv"
	"strings"

	"barberbook/models"
)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber groups the digits of raw into blocks of four.
func FormatCardNumber(raw string) string {
	d := digitsOnly(raw)
	if len(d) > 19 {
		d = d[:19]
	}
	var parts []string
	for i := 0; i < len(d); i += 4 {
		end := i + 4
		if end > len(d) {
			end = len(d)
		}
		parts = append(parts, d[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiry renders raw as MM/YY while the user types.
func FormatExpiry(raw string) string {
	d := digitsOnly(raw)
	if len(d) <= 2 {
		return d
	}
	if len(d) > 4 {
		d = d[:4]
	}
	return d[:2] + "/" + d[2:]
}

// ParseExpiry returns month and four-digit year from MM/YY or MM/YYYY.
func ParseExpiry(expiry string) (month, year int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(expiry), "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	yy := strings.TrimSpace(parts[1])
	year, err = strconv.Atoi(yy)
	if err != nil {
		return 0, 0, false
	}
	switch len(yy) {
	case 2:
		year += 2000
	case 4:
	default:
		return 0, 0, false
	}
	return month, year, true
}

// CardBrand guesses the network from the leading digits, for display only.
func CardBrand(number string) string {
	d := digitsOnly(number)
	switch {
	case strings.HasPrefix(d, "4"):
		return "visa"
	case strings.HasPrefix(d, "34"), strings.HasPrefix(d, "37"):
		return "amex"
	case strings.HasPrefix(d, "6011"), strings.HasPrefix(d, "65"):
		return "discover"
	case len(d) >= 2 && d[0] == '5' && d[1] >= '1' && d[1] <= '5':
		return "mastercard"
	case len(d) >= 4 && d[:2] == "22":
		if n, _ := strconv.Atoi(d[:4]); n >= 2221 && n <= 2720 {
			return "mastercard"
		}
	}
	return "card"
}

func missingCardFields(card models.CardDetails) bool {
	return strings.TrimSpace(card.Number) == "" ||
		strings.TrimSpace(card.Expiry) == "" ||
		strings.TrimSpace(card.CVC) == "" ||
		strings.TrimSpace(card.CardholderName) == ""
}

// ValidateCard applies the client-side range checks. The processor stays
// the authority on whether the card is actually valid.
func ValidateCard(card models.CardDetails) error {
	if missingCardFields(card) {
		return &models.ValidationError{Field: "card", Message: "Please fill in all card details"}
	}
	if n := len(digitsOnly(card.Number)); n < 13 || n > 19 {
		return &models.ValidationError{Field: "cardNumber", Message: "Card number must be 13 to 19 digits"}
	}
	month, _, ok := ParseExpiry(card.Expiry)
	if !ok || month < 1 || month > 12 {
		return &models.ValidationError{Field: "expiry", Message: "Expiry must be a valid MM/YY date"}
	}
	cvc := strings.TrimSpace(card.CVC)
	if digitsOnly(cvc) != cvc || len(cvc) < 3 || len(cvc) > 4 {
		return &models.ValidationError{Field: "cvc", Message: "Security code must be 3 or 4 digits"}
	}
	return nil
}
