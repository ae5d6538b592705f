package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/storage"
)

func seedLog(t *testing.T, repo *storage.MemoryStorage, userID, mealType string, loggedAt time.Time, food ...string) {
	t.Helper()
	err := repo.SaveFoodLog(context.Background(), &internal.FoodLog{
		ID:        userID + "-" + mealType + "-" + loggedAt.Format(time.RFC3339Nano),
		UserID:    userID,
		MealType:  mealType,
		FoodItems: food,
		LoggedAt:  loggedAt,
		CreatedAt: loggedAt,
	})
	require.NoError(t, err)
}

func TestHistory_TrailingWindowBounds(t *testing.T) {
	repo := storage.NewMemoryStorage()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	seedLog(t, repo, "u1", "lunch", now.AddDate(0, 0, -6), "poha")
	seedLog(t, repo, "u1", "dinner", now.AddDate(0, 0, -8), "soup")

	entries, err := History(context.Background(), repo, "u1", 7, now)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "lunch", entries[0].Meal)
	assert.Equal(t, []string{"poha"}, entries[0].Food)
}

func TestHistory_FormatAndOrder(t *testing.T) {
	repo := storage.NewMemoryStorage()
	now := time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC)

	seedLog(t, repo, "u1", "breakfast", time.Date(2025, 6, 14, 8, 30, 0, 0, time.UTC), "upma")
	seedLog(t, repo, "u1", "lunch", time.Date(2025, 6, 15, 13, 5, 0, 0, time.UTC), "rajma chawal")

	entries, err := History(context.Background(), repo, "u1", 7, now)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Most recent first, timestamp split into date and time components.
	assert.Equal(t, "2025-06-15", entries[0].Date)
	assert.Equal(t, "13:05", entries[0].Time)
	assert.Equal(t, "lunch", entries[0].Meal)
	assert.Equal(t, "2025-06-14", entries[1].Date)
	assert.Equal(t, "08:30", entries[1].Time)
}

func TestHistory_DefaultDays(t *testing.T) {
	repo := storage.NewMemoryStorage()
	now := time.Now().UTC()
	seedLog(t, repo, "u1", "lunch", now.AddDate(0, 0, -3), "salad")

	entries, err := History(context.Background(), repo, "u1", 0, now)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = History(context.Background(), repo, "", 7, now)
	assert.ErrorIs(t, err, internal.ErrInvalidRequest)
}
