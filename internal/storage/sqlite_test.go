package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fortaxe/food-track-backend/internal"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"), internal.NewZapLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_SaveAndFindInWindow(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	loggedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	log := &internal.FoodLog{
		ID:        "l1",
		UserID:    "u1",
		MealType:  "lunch",
		FoodItems: []string{"eggs and toast"},
		LoggedAt:  loggedAt,
		CreatedAt: loggedAt,
	}
	require.NoError(t, s.SaveFoodLog(ctx, log))

	start := loggedAt.Add(-time.Hour)
	end := loggedAt.Add(time.Hour)

	found, err := s.FindFoodLogInWindow(ctx, "u1", "lunch", start, end)
	require.NoError(t, err)
	assert.Equal(t, "l1", found.ID)
	assert.Equal(t, []string{"eggs and toast"}, found.FoodItems)
	assert.True(t, found.LoggedAt.Equal(loggedAt))

	// Window bounds are inclusive on both ends.
	found, err = s.FindFoodLogInWindow(ctx, "u1", "lunch", loggedAt, loggedAt)
	require.NoError(t, err)
	assert.Equal(t, "l1", found.ID)

	_, err = s.FindFoodLogInWindow(ctx, "u1", "lunch", end.Add(time.Millisecond), end.Add(time.Hour))
	assert.ErrorIs(t, err, internal.ErrNotFound)
	_, err = s.FindFoodLogInWindow(ctx, "u1", "dinner", start, end)
	assert.ErrorIs(t, err, internal.ErrNotFound)
	_, err = s.FindFoodLogInWindow(ctx, "u2", "lunch", start, end)
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestSQLite_UpdateFoodLog(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	loggedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	log := &internal.FoodLog{
		ID: "l1", UserID: "u1", MealType: "lunch",
		FoodItems: []string{"eggs"}, LoggedAt: loggedAt, CreatedAt: loggedAt,
	}
	require.NoError(t, s.SaveFoodLog(ctx, log))

	log.FoodItems = []string{"paneer wrap"}
	log.LoggedAt = loggedAt.Add(2 * time.Hour)
	require.NoError(t, s.UpdateFoodLog(ctx, log))

	logs, err := s.ListFoodLogs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, []string{"paneer wrap"}, logs[0].FoodItems)
	assert.True(t, logs[0].LoggedAt.Equal(loggedAt.Add(2*time.Hour)))
}

func TestSQLite_ListOrderingAndRange(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for i, meal := range []string{"breakfast", "lunch", "dinner"} {
		require.NoError(t, s.SaveFoodLog(ctx, &internal.FoodLog{
			ID: meal, UserID: "u1", MealType: meal,
			FoodItems: []string{meal + " food"},
			LoggedAt:  base.Add(time.Duration(i) * 5 * time.Hour),
			CreatedAt: base,
		}))
	}

	logs, err := s.ListFoodLogs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "dinner", logs[0].MealType)
	assert.Equal(t, "breakfast", logs[2].MealType)

	ranged, err := s.ListFoodLogsInRange(ctx, "u1", base, base.Add(6*time.Hour))
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, "lunch", ranged[0].MealType)
}

func TestSQLite_Users(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, internal.ErrNotFound)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	user := &internal.User{
		ID: "u1", Email: "a@b.com", Name: "A", PasswordHash: "hash",
		EmailVerified: false, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.False(t, got.EmailVerified)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestSQLite_ChatMessagesAscending(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveChatMessage(ctx, &internal.ChatMessage{
		ID: "m2", UserID: "u1", Role: "assistant", Content: "second", CreatedAt: base.Add(time.Minute),
	}))
	require.NoError(t, s.SaveChatMessage(ctx, &internal.ChatMessage{
		ID: "m1", UserID: "u1", Role: "user", Content: "first", CreatedAt: base,
	}))

	msgs, err := s.ListChatMessages(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
}
