package wizard

import (
	"context"
	"errors"
	"testing"

	"barberbook/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNext_Guards(t *testing.T) {
	f := newFixture(t)
	w := New("s1", Actor{UserID: "u1"}, f.deps)
	assert.Equal(t, StepSelectProvider, w.Step())

	_, err := w.Next()
	assert.ErrorIs(t, err, models.ErrStepGuard)

	require.NoError(t, w.SelectProvider(models.AnyAvailable()))
	step, err := w.Next()
	require.NoError(t, err)
	assert.Equal(t, StepSelectServices, step)

	_, err = w.Next()
	assert.ErrorIs(t, err, models.ErrStepGuard)
	require.NoError(t, w.ToggleService(3))
	step, err = w.Next()
	require.NoError(t, err)
	assert.Equal(t, StepSelectDateTime, step)

	require.NoError(t, w.SelectDate("2025-06-10"))
	_, err = w.Next()
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please select a date and time", ve.Message)

	require.NoError(t, w.SelectTime("14:00"))
	step, err = w.Next()
	require.NoError(t, err)
	assert.Equal(t, StepSummary, step)

	_, err = w.Next()
	assert.ErrorIs(t, err, models.ErrStepGuard)
}

func TestBack_Unrestricted(t *testing.T) {
	f := newFixture(t)
	w := NewWithPreselection("s1", Actor{}, f.deps, Preselection{StartAt: StepSummary})

	for _, want := range []Step{StepSelectDateTime, StepSelectServices, StepSelectProvider, StepSelectProvider} {
		got, err := w.Back()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPreselection_JumpsToDateStep(t *testing.T) {
	f := newFixture(t)
	al := models.NewProvider(1, "Al", "Master Barber - All Services", 5, "")
	w := NewWithPreselection("s1", Actor{}, f.deps, Preselection{Provider: &al, ServiceIDs: []int{1, 4}})

	assert.Equal(t, StepSelectDateTime, w.Step())
	d := w.Draft()
	assert.Equal(t, []int{1, 4}, d.ServiceIDs())
	assert.Equal(t, 1, d.Provider.IDValue())
}

func TestSelectDate(t *testing.T) {
	f := newFixture(t)
	w := New("s1", Actor{}, f.deps)

	var ve *models.ValidationError
	require.ErrorAs(t, w.SelectDate("2025-05-31"), &ve)
	assert.Equal(t, "date", ve.Field)
	require.ErrorAs(t, w.SelectDate("06/10/2025"), &ve)

	assert.NoError(t, w.SelectDate("2025-06-01"))
	assert.Equal(t, "2025-06-01", w.Draft().Date)
}

func TestSelectTime_OnGridOnly(t *testing.T) {
	f := newFixture(t)
	w := New("s1", Actor{}, f.deps)

	var ve *models.ValidationError
	require.ErrorAs(t, w.SelectTime("19:00"), &ve)
	require.ErrorAs(t, w.SelectTime("10:15"), &ve)
	assert.NoError(t, w.SelectTime("18:30"))
}

func TestToggleService_TotalsFollowSelection(t *testing.T) {
	f := newFixture(t)
	w := New("s1", Actor{}, f.deps)

	require.NoError(t, w.ToggleService(2))
	require.NoError(t, w.ToggleService(4))
	assert.True(t, decimal.NewFromInt(70).Equal(w.TotalPrice()))
	assert.Equal(t, 60, w.TotalDuration())

	require.NoError(t, w.ToggleService(2))
	assert.True(t, decimal.NewFromInt(20).Equal(w.TotalPrice()))
	assert.Equal(t, []int{4}, w.Draft().ServiceIDs())

	var ve *models.ValidationError
	require.ErrorAs(t, w.ToggleService(99), &ve)
}

func TestSetServices_RepeatedIDsCountOnce(t *testing.T) {
	f := newFixture(t)
	w := New("s1", Actor{}, f.deps)

	require.NoError(t, w.SetServices([]int{4, 2, 4}))
	assert.Equal(t, []int{4, 2}, w.Draft().ServiceIDs())
	assert.True(t, decimal.NewFromInt(70).Equal(w.TotalPrice()))
	assert.Equal(t, 60, w.TotalDuration())
}

func TestEligibleProviders_FiltersCandidates(t *testing.T) {
	f := newFixture(t)
	w := New("s1", Actor{}, f.deps)
	require.NoError(t, w.SetServices([]int{1}))

	candidates := append([]models.Provider{models.AnyAvailable()}, f.deps.Catalog.Providers()...)
	f.avail.On("Candidates", mock.Anything, f.deps.Catalog, "", models.TimeSlot("")).Return(candidates, nil)

	got, err := w.EligibleProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.True(t, got[0].IsSentinel())
	for _, p := range got[1:] {
		assert.Equal(t, models.TierMaster, p.Tier)
	}
}

func TestEligibleProviders_LoadFailure(t *testing.T) {
	f := newFixture(t)
	w := New("s1", Actor{}, f.deps)
	loadErr := &models.LoadError{Message: "Failed to load barbers. Please try again.", Err: errors.New("503")}
	f.avail.On("Candidates", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, loadErr)

	_, err := w.EligibleProviders(context.Background())
	var le *models.LoadError
	require.ErrorAs(t, err, &le)
}

func TestLoadPreview_OnlyForSentinel(t *testing.T) {
	f := newFixture(t)
	w := New("s1", Actor{}, f.deps)
	al := models.NewProvider(1, "Al", "Master Barber - All Services", 5, "")
	require.NoError(t, w.SelectProvider(al))
	require.NoError(t, w.SelectDate("2025-06-10"))
	require.NoError(t, w.SelectTime("14:00"))

	assert.Nil(t, w.LoadPreview(context.Background()))
	f.avail.AssertNotCalled(t, "PreviewAssignedProvider", mock.Anything, mock.Anything, mock.Anything)
}

func TestSnapshotRestore(t *testing.T) {
	f := newFixture(t)
	w := New("s1", Actor{UserID: "u1", Staff: true}, f.deps)
	atSummary(t, w, models.AnyAvailable(), []int{2, 4}, "2025-06-10", "14:00")
	require.NoError(t, w.SetCustomer(models.CustomerInfo{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"}))

	snap := w.Snapshot()
	r := Restore(snap, f.deps)
	assert.Equal(t, StepSummary, r.Step())
	assert.Equal(t, w.Draft(), r.Draft())
	assert.Equal(t, "Ann", r.Customer().FirstName)
	assert.True(t, r.Actor().Staff)
}

func TestClose_RejectsMutations(t *testing.T) {
	f := newFixture(t)
	w := New("s1", Actor{}, f.deps)
	w.Close()

	assert.ErrorIs(t, w.ToggleService(1), models.ErrClosed)
	_, err := w.Next()
	assert.ErrorIs(t, err, models.ErrClosed)
	_, err = w.EligibleProviders(context.Background())
	assert.ErrorIs(t, err, models.ErrClosed)
}
