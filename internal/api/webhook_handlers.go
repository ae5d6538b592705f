package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/service"
)

// WebhookRequest is the free-form payload the voice agent posts. Which
// operation it means is decided once, at this boundary, from the fields that
// are present; downstream code never re-inspects the raw payload.
type WebhookRequest struct {
	UserID    string          `json:"user_id"`
	MealType  *string         `json:"meal_type"`
	FoodItems *string         `json:"food_items"`
	Days      json.RawMessage `json:"days"`
}

type webhookKind int

const (
	webhookUnknown webhookKind = iota
	webhookMealReport
	webhookHistory
)

func classifyWebhook(req *WebhookRequest) webhookKind {
	if req.FoodItems != nil || req.MealType != nil {
		return webhookMealReport
	}
	if len(req.Days) > 0 {
		return webhookHistory
	}
	return webhookUnknown
}

// parseDays accepts a JSON number or a numeric string; anything unusable
// falls back to the default lookback.
func parseDays(raw json.RawMessage) int {
	if len(raw) == 0 {
		return service.DefaultHistoryDays
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil && n > 0 {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			return n
		}
	}
	return service.DefaultHistoryDays
}

// PostWebhook handles meal reports and history queries from the voice agent.
// Responses use the collaborator's {success, result} contract rather than the
// API envelope. A filler report is answered as a success so agent retries and
// echoes never corrupt data.
func PostWebhook(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			app.Logger().Errorf("webhook: bad payload: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		switch classifyWebhook(&req) {
		case webhookMealReport:
			handleMealReport(c, app, &req)
		case webhookHistory:
			handleHistory(c, app, &req)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown function"})
		}
	}
}

func handleMealReport(c *gin.Context, app App, req *WebhookRequest) {
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	var mealType, foodItems string
	if req.MealType != nil {
		mealType = *req.MealType
	}
	if req.FoodItems != nil {
		foodItems = *req.FoodItems
	}

	outcome, log, err := service.LogMeal(c.Request.Context(), app.FoodRepo(), req.UserID, mealType, foodItems, time.Now().UTC())
	if err != nil {
		if errors.Is(err, internal.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "meal_type is required"})
			return
		}
		app.Logger().Errorf("webhook: failed to log meal: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	switch outcome {
	case service.OutcomeIgnored:
		app.Logger().Infof("webhook: ignored filler content for user %s", req.UserID)
		c.JSON(http.StatusOK, gin.H{"success": true, "result": "Ignored invalid text"})
	case service.OutcomeUpdated:
		c.JSON(http.StatusOK, gin.H{"success": true, "result": fmt.Sprintf("Updated %s: %s", log.MealType, foodItems)})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "result": fmt.Sprintf("Successfully logged %s: %s", log.MealType, foodItems)})
	}
}

func handleHistory(c *gin.Context, app App, req *WebhookRequest) {
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	days := parseDays(req.Days)

	entries, err := service.History(c.Request.Context(), app.FoodRepo(), req.UserID, days, time.Now().UTC())
	if err != nil {
		app.Logger().Errorf("webhook: failed to fetch history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	encoded, err := json.Marshal(entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	app.Logger().Infof("webhook: history retrieved, %d entries", len(entries))
	c.JSON(http.StatusOK, gin.H{"success": true, "result": string(encoded)})
}

// PostSignedURL fetches a signed conversational-AI connection URL from the
// voice-agent provider.
func PostSignedURL(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		signedURL, err := app.Voice().SignedURL(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to get signed URL")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"signedUrl": signedURL}, nil)
	}
}

// PostTTS streams synthesized speech back to the caller as audio/mpeg.
func PostTTS(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Text string `json:"text"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
			return
		}

		audio, err := app.Voice().TextToSpeech(c.Request.Context(), req.Text)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to generate speech")
			return
		}
		defer audio.Close()

		c.Header("Content-Type", "audio/mpeg")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, audio); err != nil {
			app.Logger().Errorf("tts: stream interrupted: %v", err)
		}
	}
}
