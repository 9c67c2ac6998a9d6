package eligibility

import (
	"testing"

	"barberbook/models"
	"barberbook/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates() []models.Provider {
	return append([]models.Provider{models.AnyAvailable()}, catalog.Default().Providers()...)
}

func names(ps []models.Provider) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func services(t *testing.T, ids ...int) []models.Service {
	t.Helper()
	s, err := catalog.Default().ServicesByID(ids)
	require.NoError(t, err)
	return s
}

func TestFilter_Precedence(t *testing.T) {
	all := []string{"Any Available", "Al", "Cynthia", "Eric", "John", "Nick", "Riza"}
	masters := []string{"Any Available", "Al", "Cynthia", "John", "Nick"}

	tests := []struct {
		name     string
		services []int
		want     []string
	}{
		{"no services", nil, all},
		{"master and senior", []int{1, 2}, all},
		{"master only", []int{1}, masters},
		{"master with untiered", []int{1, 4}, masters},
		{"senior only", []int{2}, all},
		{"untiered only", []int{3, 4, 8}, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sel []models.Service
			if tt.services != nil {
				sel = services(t, tt.services...)
			}
			assert.Equal(t, tt.want, names(Filter(sel, candidates())))
		})
	}
}

func TestFilter_SeniorExcludesUntieredBarbers(t *testing.T) {
	id := 9
	walkIn := models.Provider{ID: &id, Name: "Walk-in", Specialty: "Apprentice"}
	in := append(candidates(), walkIn)

	got := names(Filter(services(t, 2), in))
	assert.NotContains(t, got, "Walk-in")
	assert.Contains(t, got, "Eric")
	assert.Contains(t, got, "Al")

	got = names(Filter(services(t, 1, 2), in))
	assert.NotContains(t, got, "Walk-in")
}

func TestFilter_SentinelAlwaysKept(t *testing.T) {
	selections := [][]int{nil, {1}, {2}, {3}, {1, 2}, {1, 2, 3, 4, 5, 6, 7, 8}}
	for _, ids := range selections {
		var sel []models.Service
		if ids != nil {
			sel = services(t, ids...)
		}
		got := Filter(sel, candidates())
		require.NotEmpty(t, got)
		assert.True(t, got[0].IsSentinel(), "selection %v", ids)
	}
}

func TestFilter_MasterAndSeniorNeverEmpty(t *testing.T) {
	onlySeniors := []models.Provider{}
	for _, p := range catalog.Default().Providers() {
		if p.Tier == models.TierSenior {
			onlySeniors = append(onlySeniors, p)
		}
	}
	got := Filter(services(t, 1, 2), onlySeniors)
	assert.Equal(t, []string{"Eric", "Riza"}, names(got))
}

func TestFilter_CaseSensitiveTags(t *testing.T) {
	id := 11
	lower := models.Provider{ID: &id, Name: "Lower", Specialty: "master barber", Tier: models.TierFromText("master barber")}
	got := Filter(services(t, 1), []models.Provider{models.AnyAvailable(), lower})
	assert.Equal(t, []string{"Any Available"}, names(got))
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	in := candidates()
	out := Filter(nil, in)
	out[1].Name = "changed"
	assert.Equal(t, "Al", in[1].Name)
}
