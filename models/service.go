package models

import "github.com/shopspring/decimal"

// Service is a bookable barbershop service. Catalog data, never mutated by the client.
type Service struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Duration     int             `json:"duration"`     // minutes
	RequiredTier ProviderTier    `json:"requiredTier"` // derived from Name
}

// NewService builds a service and derives the tier it requires from its name.
func NewService(id int, name, description string, price int64, duration int) Service {
	return Service{
		ID:           id,
		Name:         name,
		Description:  description,
		Price:        decimal.NewFromInt(price),
		Duration:     duration,
		RequiredTier: TierFromText(name),
	}
}

// TimeSlot is a half-hour boundary such as "14:30".
type TimeSlot string
