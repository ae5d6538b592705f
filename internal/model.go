package internal

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrInvalidRequest is returned by services when required identifying
// fields are missing; storage is never touched in that case.
var ErrInvalidRequest = errors.New("invalid request")

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	PasswordHash  string    `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FoodLog is one entry of "what a user reported eating for a given meal
// category on a given civil day". MealType is stored lowercase. FoodItems
// holds a single element when written by the webhook path; the direct API
// path may store several.
type FoodLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MealType  string    `json:"meal_type"`
	FoodItems []string  `json:"food_items"`
	Notes     *string   `json:"notes"`
	LoggedAt  time.Time `json:"logged_at"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
