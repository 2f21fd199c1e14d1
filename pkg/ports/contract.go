package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendhq/tend/pkg/domain"
)

// RunRemoteAPIContract runs a suite of tests verifying that a RemoteAPI
// implementation adheres to the interface contract. The api must be
// seeded with exactly two routines (the given morning/evening ids) and
// no habits or logs.
func RunRemoteAPIContract(t *testing.T, api RemoteAPI, morningID, eveningID string) {
	ctx := context.Background()

	t.Run("FetchAll Seeded", func(t *testing.T) {
		data, err := api.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, data.Routines, 2)
		assert.Empty(t, data.Habits)
		assert.Empty(t, data.HabitLogs)
	})

	t.Run("CreateHabit Validation", func(t *testing.T) {
		_, err := api.CreateHabit(ctx, "", morningID)
		assert.True(t, domain.IsValidation(err), "empty name should be rejected, got %v", err)

		_, err = api.CreateHabit(ctx, "Stretch", "no-such-routine")
		assert.True(t, domain.IsValidation(err), "unknown routine should be rejected, got %v", err)
	})

	t.Run("CreateHabit Assigns ID", func(t *testing.T) {
		h, err := api.CreateHabit(ctx, "Meditate", morningID)
		require.NoError(t, err)
		assert.NotEmpty(t, h.ID)
		assert.Equal(t, morningID, h.RoutineID)

		data, err := api.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, data.Habits, 1)
		assert.Equal(t, h, data.Habits[0])
	})

	t.Run("SetHabitCompletion Upserts", func(t *testing.T) {
		data, err := api.FetchAll(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, data.Habits)
		habitID := data.Habits[0].ID
		today := domain.Today()

		require.NoError(t, api.SetHabitCompletion(ctx, habitID, today, true))
		require.NoError(t, api.SetHabitCompletion(ctx, habitID, today, false))

		data, err = api.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, data.HabitLogs, 1, "upsert must not duplicate (habit, date) entries")
		assert.False(t, data.HabitLogs[0].Completed)
	})

	t.Run("DeleteHabit Cascades Logs", func(t *testing.T) {
		data, err := api.FetchAll(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, data.Habits)
		habitID := data.Habits[0].ID

		require.NoError(t, api.DeleteHabit(ctx, habitID))

		data, err = api.FetchAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, data.Habits)
		assert.Empty(t, data.HabitLogs)
	})

	t.Run("DeleteRoutine Cascades", func(t *testing.T) {
		h1, err := api.CreateHabit(ctx, "Journal", eveningID)
		require.NoError(t, err)
		h2, err := api.CreateHabit(ctx, "Read", eveningID)
		require.NoError(t, err)
		require.NoError(t, api.SetHabitCompletion(ctx, h1.ID, domain.Today(), true))
		require.NoError(t, api.SetHabitCompletion(ctx, h2.ID, domain.Today(), true))

		require.NoError(t, api.DeleteRoutine(ctx, eveningID))

		data, err := api.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, data.Routines, 1)
		assert.Equal(t, morningID, data.Routines[0].ID)
		assert.Empty(t, data.Habits)
		assert.Empty(t, data.HabitLogs)
	})
}
