// Package storetest holds the behaviour every store.Store implementation
// must share, run from each implementation's tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwvelando/payout-simulator/internal/config"
	"github.com/iwvelando/payout-simulator/internal/store"
)

// Run exercises newStore against the store.Store contract.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("StructureRoundTrip", func(t *testing.T) { testStructureRoundTrip(t, newStore(t)) })
	t.Run("ProfileRoundTrip", func(t *testing.T) { testProfileRoundTrip(t, newStore(t)) })
	t.Run("ListOrder", func(t *testing.T) { testListOrder(t, newStore(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newStore(t)) })
}

func testStructureRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()

	saved, err := s.SaveStructure(ctx, config.ConservativeStructure())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := s.GetStructure(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Conservative Model", got.Structure.Name)
	require.Len(t, got.Structure.Commission, 3)
	assert.InDelta(t, 1.5, got.Structure.Commission[0].Percentage, 1e-9)
	require.NotNil(t, got.Structure.Quarterly[0].UpTo)
	assert.InDelta(t, 99, *got.Structure.Quarterly[0].UpTo, 1e-9)
	assert.Nil(t, got.Structure.Quarterly[4].UpTo)
	assert.True(t, got.Structure.RollingAverage.Enabled)

	require.NoError(t, s.DeleteStructure(ctx, saved.ID))
	_, err = s.GetStructure(ctx, saved.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testProfileRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()

	saved, err := s.SaveProfile(ctx, config.TopPerformerProfile())
	require.NoError(t, err)

	got, err := s.GetProfile(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Top Performer", got.Profile.Name)
	assert.Equal(t, []float64{120, 125, 130, 140}, got.Profile.QuarterlyAchievements)
	assert.Len(t, got.Profile.MonthlySales, 12)
	assert.InDelta(t, 1.0, got.Profile.FTE, 1e-9)

	require.NoError(t, s.DeleteProfile(ctx, saved.ID))
	profiles, err := s.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func testListOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()

	var ids []string
	for _, sc := range config.StructurePresets() {
		rec, err := s.SaveStructure(ctx, sc)
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}
	// Saving an existing name adds a second record.
	dup, err := s.SaveStructure(ctx, config.DefaultStructure())
	require.NoError(t, err)
	ids = append(ids, dup.ID)

	list, err := s.ListStructures(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i, rec := range list {
		assert.Equal(t, ids[i], rec.ID)
	}
	assert.Equal(t, list[1].Structure.Name, list[3].Structure.Name)
}

func testNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()

	_, err := s.GetStructure(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteStructure(ctx, "missing"), store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteProfile(ctx, "missing"), store.ErrNotFound)
}
