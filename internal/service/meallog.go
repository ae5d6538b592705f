package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/storage"
)

var validate = validator.New()

// LogMealOutcome describes what the upsert engine did with a meal report.
type LogMealOutcome string

const (
	OutcomeCreated LogMealOutcome = "created"
	OutcomeUpdated LogMealOutcome = "updated"
	// OutcomeIgnored means the content was classified as conversational
	// filler and storage was not touched. Not an error.
	OutcomeIgnored LogMealOutcome = "ignored"
)

// LogMeal finds or creates the single log row for (userID, mealType, civil
// day of now) and applies create-or-replace semantics: a re-report within the
// same meal slot overwrites the previous content rather than appending to it.
//
// There is no transaction around the check-then-write; concurrent reports for
// the same slot race, and a rare duplicate row is tolerated.
func LogMeal(ctx context.Context, repo storage.FoodLogRepository, userID, mealType, content string, now time.Time) (LogMealOutcome, *internal.FoodLog, error) {
	if userID == "" || strings.TrimSpace(mealType) == "" {
		return "", nil, internal.ErrInvalidRequest
	}

	if IsFiller(content) {
		return OutcomeIgnored, nil, nil
	}

	mealType = strings.ToLower(strings.TrimSpace(mealType))
	start, end := DayWindow(now)

	existing, err := repo.FindFoodLogInWindow(ctx, userID, mealType, start, end)
	if err != nil && !errors.Is(err, internal.ErrNotFound) {
		return "", nil, err
	}

	if existing != nil {
		existing.FoodItems = []string{content}
		existing.LoggedAt = now
		if err := repo.UpdateFoodLog(ctx, existing); err != nil {
			return "", nil, err
		}
		return OutcomeUpdated, existing, nil
	}

	log := &internal.FoodLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		MealType:  mealType,
		FoodItems: []string{content},
		Notes:     nil,
		LoggedAt:  now,
		CreatedAt: now,
	}
	if err := repo.SaveFoodLog(ctx, log); err != nil {
		return "", nil, err
	}
	return OutcomeCreated, log, nil
}

// FoodLogRequest is the direct-API create payload. Unlike the webhook path it
// always creates: explicit API writes are authoritative appends.
type FoodLogRequest struct {
	UserID    string   `json:"userId" validate:"required"`
	MealType  string   `json:"mealType" validate:"required"`
	FoodItems []string `json:"foodItems" validate:"required,min=1,dive,required"`
	Notes     *string  `json:"notes,omitempty" validate:"omitempty"`
}

func ValidateFoodLogRequest(body *FoodLogRequest) error {
	return validate.Struct(body)
}

func CreateFoodLog(ctx context.Context, repo storage.FoodLogRepository, body *FoodLogRequest) (*internal.FoodLog, error) {
	now := time.Now().UTC()
	log := &internal.FoodLog{
		ID:        uuid.NewString(),
		UserID:    body.UserID,
		MealType:  strings.ToLower(strings.TrimSpace(body.MealType)),
		FoodItems: body.FoodItems,
		Notes:     body.Notes,
		LoggedAt:  now,
		CreatedAt: now,
	}
	if err := repo.SaveFoodLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// ListFoodLogs returns a user's logs most-recent-first. When date is non-nil
// the result is restricted to the civil day containing it.
func ListFoodLogs(ctx context.Context, repo storage.FoodLogRepository, userID string, date *time.Time) ([]internal.FoodLog, error) {
	if userID == "" {
		return nil, internal.ErrInvalidRequest
	}
	if date != nil {
		start, end := DayWindow(*date)
		return repo.ListFoodLogsInRange(ctx, userID, start, end)
	}
	return repo.ListFoodLogs(ctx, userID)
}
