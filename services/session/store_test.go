package session

import (
	"context"
	"testing"
	"time"

	"barberbook/models"
	"barberbook/services/wizard"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() wizard.Snapshot {
	sentinel := models.AnyAvailable()
	return wizard.Snapshot{
		ID:    "abc",
		Actor: wizard.Actor{UserID: "u1"},
		Step:  wizard.StepSelectDateTime,
		Draft: models.DraftBooking{
			Services: []models.Service{models.NewService(4, "Beard Trim", "", 20, 30)},
			Provider: &sentinel,
			Date:     "2025-06-10",
		},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(30 * time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, sampleSnapshot()))
	got, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepSelectDateTime, got.Step)

	now = now.Add(31 * time.Minute)
	_, err = s.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, sampleSnapshot()))
	require.NoError(t, s.Delete(ctx, "abc"))
	_, err = s.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Sweep(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Save(context.Background(), sampleSnapshot()))

	assert.Equal(t, 0, s.Sweep())
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	s := NewRedisStore(client, 30*time.Minute)

	snap := sampleSnapshot()
	require.NoError(t, s.Save(ctx, snap))
	assert.Equal(t, 30*time.Minute, mr.TTL(keyPrefix+"abc"))

	got, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, snap.Draft.ServiceIDs(), got.Draft.ServiceIDs())
	assert.True(t, got.Draft.Provider.IsSentinel())
	assert.True(t, snap.Draft.TotalPrice().Equal(got.Draft.TotalPrice()))

	mr.FastForward(31 * time.Minute)
	_, err = s.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, snap))
	require.NoError(t, s.Delete(ctx, "abc"))
	_, err = s.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}
