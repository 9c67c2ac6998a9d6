package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFromText(t *testing.T) {
	tests := []struct {
		text string
		want ProviderTier
	}{
		{"Master Barber - All Services", TierMaster},
		{"Senior Barber", TierSenior},
		{"Master Barber / Senior Barber", TierMaster | TierSenior},
		{"master barber", TierNone},
		{"", TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, TierFromText(tt.text))
		})
	}
}

func TestDraftTotals_FollowMutations(t *testing.T) {
	d := DraftBooking{}
	assert.True(t, d.TotalPrice().IsZero())

	d.Services = append(d.Services, NewService(2, "Haircut - Senior Barber", "", 50, 30))
	d.Services = append(d.Services, NewService(4, "Beard Trim", "", 20, 30))
	assert.True(t, decimal.NewFromInt(70).Equal(d.TotalPrice()))
	assert.Equal(t, 60, d.TotalDuration())

	d.Services = d.Services[1:]
	assert.True(t, decimal.NewFromInt(20).Equal(d.TotalPrice()))
	assert.Equal(t, []int{4}, d.ServiceIDs())
	assert.True(t, d.HasService(4))
	assert.False(t, d.HasService(2))
}

func TestDraftSubmittable(t *testing.T) {
	sentinel := AnyAvailable()
	d := DraftBooking{
		Services: []Service{NewService(3, "Buzz Cut", "", 30, 30)},
		Provider: &sentinel,
		Date:     "2025-06-10",
		Time:     "14:00",
	}
	assert.True(t, d.Submittable())

	noTime := d.Clone()
	noTime.Time = ""
	assert.False(t, noTime.Submittable())

	noProvider := d.Clone()
	noProvider.Provider = nil
	assert.False(t, noProvider.Submittable())
}

func TestDraftClone_IsDeep(t *testing.T) {
	p := NewProvider(1, "Al", "Master Barber - All Services", 5, "")
	d := DraftBooking{Services: []Service{NewService(1, "Haircut - Master Barber", "", 60, 30)}, Provider: &p}

	c := d.Clone()
	c.Services[0].Name = "changed"
	c.Provider.Name = "changed"

	assert.Equal(t, "Haircut - Master Barber", d.Services[0].Name)
	assert.Equal(t, "Al", d.Provider.Name)
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseBookingStatus("archived")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
}

func TestUserMessage(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Field: "email", Message: "Please enter a valid email"}, "Please enter a valid email"},
		{"wrapped submission", fmt.Errorf("submit: %w", &SubmissionError{Message: "Slot taken", Err: cause}), "Slot taken"},
		{"busy", ErrBusy, "Please wait for the current request to finish."},
		{"unknown", cause, "Something went wrong. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestValidationError_UnwrapsStepGuard(t *testing.T) {
	err := &ValidationError{Field: "step", Message: "Please select a barber", Err: ErrStepGuard}
	assert.ErrorIs(t, err, ErrStepGuard)
}

func TestCustomerFullName(t *testing.T) {
	assert.Equal(t, "Ann Lee", CustomerInfo{FirstName: "Ann", LastName: "Lee"}.FullName())
	assert.Equal(t, "Ann", CustomerInfo{FirstName: "Ann"}.FullName())
}
