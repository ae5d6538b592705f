package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortaxe/food-track-backend/internal/auth"
)

func setupAPIRouter(app *testApp) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.POST("/api/auth/continue", PostContinue(app))

	protected := r.Group("/api", auth.Middleware(app.auth))
	protected.GET("/auth/me", GetMe(app))
	protected.GET("/food-logs/:userId", GetFoodLogs(app))
	protected.POST("/food-logs", PostFoodLog(app))
	protected.GET("/chat/:userId", GetChat(app))
	protected.POST("/chat", PostChat(app))
	return r
}

func doJSON(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func continueSession(t *testing.T, r *gin.Engine, email string) (token, userID string) {
	t.Helper()
	w := doJSON(r, "POST", "/api/auth/continue", `{"email":"`+email+`","password":"pw123"}`, "")
	require.Equal(t, 200, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token, resp.Data.User.ID
}

func TestContinueThenMe(t *testing.T) {
	app := newTestApp()
	r := setupAPIRouter(app)

	token, userID := continueSession(t, r, "me@example.com")

	w := doJSON(r, "GET", "/api/auth/me", "", token)
	require.Equal(t, 200, w.Code)

	var resp struct {
		Data struct {
			User struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.Data.User.ID)
	assert.Equal(t, "me@example.com", resp.Data.User.Email)

	// Same email resolves to the same user, not a new one.
	_, userID2 := continueSession(t, r, "me@example.com")
	assert.Equal(t, userID, userID2)
}

func TestContinue_MissingFields(t *testing.T) {
	app := newTestApp()
	r := setupAPIRouter(app)

	w := doJSON(r, "POST", "/api/auth/continue", `{"email":"me@example.com"}`, "")
	assert.Equal(t, 400, w.Code)

	w = doJSON(r, "POST", "/api/auth/continue", `{"password":"pw"}`, "")
	assert.Equal(t, 400, w.Code)
}

func TestProtectedRoutes_RejectBadTokens(t *testing.T) {
	app := newTestApp()
	r := setupAPIRouter(app)

	token, _ := continueSession(t, r, "me@example.com")

	// No token at all.
	w := doJSON(r, "GET", "/api/auth/me", "", "")
	assert.Equal(t, 401, w.Code)

	// Tampered signature.
	tampered := token[:len(token)-2] + "xx"
	w = doJSON(r, "GET", "/api/auth/me", "", tampered)
	assert.Equal(t, 401, w.Code)

	// Garbage.
	w = doJSON(r, "GET", "/api/food-logs/u1", "", "not.a.jwt")
	assert.Equal(t, 401, w.Code)
}

func TestFoodLogs_CreateAndList(t *testing.T) {
	app := newTestApp()
	r := setupAPIRouter(app)
	token, userID := continueSession(t, r, "me@example.com")

	body := `{"userId":"` + userID + `","mealType":"Lunch","foodItems":["eggs","toast"],"notes":"post-run"}`
	w := doJSON(r, "POST", "/api/food-logs", body, token)
	require.Equal(t, 200, w.Code)

	// The direct API appends; a second identical write makes a second row.
	w = doJSON(r, "POST", "/api/food-logs", body, token)
	require.Equal(t, 200, w.Code)

	logs, err := app.store.ListFoodLogs(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, "lunch", logs[0].MealType)

	w = doJSON(r, "GET", "/api/food-logs/"+userID, "", token)
	require.Equal(t, 200, w.Code)

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestFoodLogs_Validation(t *testing.T) {
	app := newTestApp()
	r := setupAPIRouter(app)
	token, _ := continueSession(t, r, "me@example.com")

	w := doJSON(r, "POST", "/api/food-logs", `{"mealType":"lunch","foodItems":["eggs"]}`, token)
	assert.Equal(t, 400, w.Code)

	w = doJSON(r, "POST", "/api/food-logs", `{"userId":"u1","mealType":"lunch","foodItems":[]}`, token)
	assert.Equal(t, 400, w.Code)

	w = doJSON(r, "GET", "/api/food-logs/u1?date=15-06-2025", "", token)
	assert.Equal(t, 400, w.Code)
}

func TestChat_AppendAndListAscending(t *testing.T) {
	app := newTestApp()
	r := setupAPIRouter(app)
	token, userID := continueSession(t, r, "me@example.com")

	first := `{"userId":"` + userID + `","role":"user","content":"what did I eat today?"}`
	second := `{"userId":"` + userID + `","role":"assistant","content":"You logged lunch: eggs."}`
	require.Equal(t, 200, doJSON(r, "POST", "/api/chat", first, token).Code)
	require.Equal(t, 200, doJSON(r, "POST", "/api/chat", second, token).Code)

	w := doJSON(r, "GET", "/api/chat/"+userID, "", token)
	require.Equal(t, 200, w.Code)

	var resp struct {
		Data []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "user", resp.Data[0].Role)
	assert.Equal(t, "assistant", resp.Data[1].Role)

	w = doJSON(r, "POST", "/api/chat", `{"userId":"`+userID+`","role":"narrator","content":"hm"}`, token)
	assert.Equal(t, 400, w.Code)
}
