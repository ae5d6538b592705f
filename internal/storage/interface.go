package storage

import (
	"context"
	"time"

	"github.com/fortaxe/food-track-backend/internal"
)

type FoodLogRepository interface {
	SaveFoodLog(ctx context.Context, log *internal.FoodLog) error
	// UpdateFoodLog replaces the stored food items and logged-at timestamp
	// of the row identified by log.ID.
	UpdateFoodLog(ctx context.Context, log *internal.FoodLog) error
	// FindFoodLogInWindow returns the log for (userID, mealType) whose
	// LoggedAt falls within [start, end] inclusive, or internal.ErrNotFound.
	FindFoodLogInWindow(ctx context.Context, userID, mealType string, start, end time.Time) (*internal.FoodLog, error)
	// ListFoodLogs returns all logs for userID ordered by LoggedAt descending.
	ListFoodLogs(ctx context.Context, userID string) ([]internal.FoodLog, error)
	// ListFoodLogsInRange is ListFoodLogs restricted to LoggedAt within
	// [start, end] inclusive.
	ListFoodLogsInRange(ctx context.Context, userID string, start, end time.Time) ([]internal.FoodLog, error)
}

type UserRepository interface {
	// GetUserByEmail returns internal.ErrNotFound when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*internal.User, error)
	CreateUser(ctx context.Context, user *internal.User) error
}

type ChatMessageRepository interface {
	SaveChatMessage(ctx context.Context, msg *internal.ChatMessage) error
	// ListChatMessages returns messages for userID ordered by CreatedAt
	// ascending.
	ListChatMessages(ctx context.Context, userID string) ([]internal.ChatMessage, error)
}
