package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/service"
)

// GetFoodLogs lists a user's logs most-recent-first. An optional
// ?date=YYYY-MM-DD query restricts the result to that civil day.
func GetFoodLogs(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		var date *time.Time
		if raw := c.Query("date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				HandleError(c, app.Logger(), err, 400, "Invalid date, expected YYYY-MM-DD")
				return
			}
			// Noon keeps the parsed date inside the right civil day
			// regardless of the offset shift.
			noon := parsed.Add(12*time.Hour - service.CivilDayOffset)
			date = &noon
		}

		logs, err := service.ListFoodLogs(c.Request.Context(), app.FoodRepo(), userID, date)
		if err != nil {
			if errors.Is(err, internal.ErrInvalidRequest) {
				HandleError(c, app.Logger(), err, 400, "userId is required")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to fetch food logs")
			return
		}

		HandleSuccess(c, app.Logger(), logs, nil)
	}
}

// PostFoodLog always creates: explicit API writes are authoritative appends,
// only the voice-agent webhook path dedupes.
func PostFoodLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.FoodLogRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateFoodLogRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		log, err := service.CreateFoodLog(c.Request.Context(), app.FoodRepo(), &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to create food log")
			return
		}

		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func GetChat(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		msgs, err := service.ListChatMessages(c.Request.Context(), app.ChatRepo(), userID)
		if err != nil {
			if errors.Is(err, internal.ErrInvalidRequest) {
				HandleError(c, app.Logger(), err, 400, "userId is required")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to fetch chat")
			return
		}

		HandleSuccess(c, app.Logger(), msgs, nil)
	}
}

func PostChat(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ChatMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateChatMessageRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		msg, err := service.SaveChatMessage(c.Request.Context(), app.ChatRepo(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save chat message")
			return
		}

		HandleSuccess(c, app.Logger(), msg, nil)
	}
}
