package models

import "strings"

// Tier tags as they appear in service names and barber specialties.
const (
	MasterBarberTag = "Master Barber"
	SeniorBarberTag = "Senior Barber"
)

// ProviderTier is the capability tier of a barber, or the tier a service requires.
// A value may carry both bits when the source text names both tags.
type ProviderTier uint8

const (
	TierMaster ProviderTier = 1 << iota
	TierSenior
)

// TierNone marks a barber or service without a tier tag.
const TierNone ProviderTier = 0

// TierFromText derives the tier bits from free text. The match is a
// case-sensitive substring match on the tier tags.
func TierFromText(text string) ProviderTier {
	var t ProviderTier
	if strings.Contains(text, MasterBarberTag) {
		t |= TierMaster
	}
	if strings.Contains(text, SeniorBarberTag) {
		t |= TierSenior
	}
	return t
}

// Has reports whether any of the bits in other are set.
func (t ProviderTier) Has(other ProviderTier) bool {
	return t&other != 0
}

func (t ProviderTier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierMaster:
		return "master"
	case TierSenior:
		return "senior"
	default:
		return "master+senior"
	}
}

// AnyAvailableName is the display name of the "let us choose" sentinel.
const AnyAvailableName = "Any Available"

// Provider is a barber as shown in the booking flow. A nil ID is the
// "Any Available" sentinel.
type Provider struct {
	ID        *int         `json:"id"`
	Name      string       `json:"name"`
	Specialty string       `json:"specialty"`
	Tier      ProviderTier `json:"tier"` // derived from Specialty at load time
	Rating    *float64     `json:"rating,omitempty"`
	Avatar    string       `json:"image,omitempty"`
}

// AnyAvailable returns a fresh copy of the sentinel provider.
func AnyAvailable() Provider {
	return Provider{
		Name:      AnyAvailableName,
		Specialty: "Let us choose the best barber for you",
	}
}

// NewProvider builds a concrete provider and derives its tier from the specialty.
func NewProvider(id int, name, specialty string, rating float64, avatar string) Provider {
	r := rating
	return Provider{
		ID:        &id,
		Name:      name,
		Specialty: specialty,
		Tier:      TierFromText(specialty),
		Rating:    &r,
		Avatar:    avatar,
	}
}

// IsSentinel reports whether p is the "Any Available" choice.
func (p Provider) IsSentinel() bool {
	return p.ID == nil
}

// IDValue returns the provider id, or 0 for the sentinel.
func (p Provider) IDValue() int {
	if p.ID == nil {
		return 0
	}
	return *p.ID
}
