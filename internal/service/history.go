package service

import (
	"context"
	"time"

	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/storage"
)

// DefaultHistoryDays is the lookback used when the caller supplies no usable
// day count.
const DefaultHistoryDays = 7

// HistoryEntry is the display-friendly shape consumed by the AI summarizer:
// the absolute timestamp split into date and time, meal and food passed
// through unchanged.
type HistoryEntry struct {
	Date string   `json:"date"`
	Time string   `json:"time"`
	Meal string   `json:"meal"`
	Food []string `json:"food"`
}

// History returns a user's logs over a trailing window of days,
// most-recent-first. The full result set is returned; no pagination.
func History(ctx context.Context, repo storage.FoodLogRepository, userID string, days int, now time.Time) ([]HistoryEntry, error) {
	if userID == "" {
		return nil, internal.ErrInvalidRequest
	}
	if days <= 0 {
		days = DefaultHistoryDays
	}

	start, end := TrailingWindow(now, days)
	logs, err := repo.ListFoodLogsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(logs))
	for _, l := range logs {
		loggedAt := l.LoggedAt.UTC()
		entries = append(entries, HistoryEntry{
			Date: loggedAt.Format("2006-01-02"),
			Time: loggedAt.Format("15:04"),
			Meal: l.MealType,
			Food: l.FoodItems,
		})
	}
	return entries, nil
}
