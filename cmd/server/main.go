package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/api"
	"github.com/fortaxe/food-track-backend/internal/auth"
	"github.com/fortaxe/food-track-backend/internal/config"
	"github.com/fortaxe/food-track-backend/internal/storage"
	"github.com/fortaxe/food-track-backend/internal/voiceagent"
)

type application struct {
	logger internal.Logger
	repos  *storage.Repositories
	auth   *auth.Service
	voice  *voiceagent.Client
}

func (a *application) Logger() internal.Logger                  { return a.logger }
func (a *application) FoodRepo() storage.FoodLogRepository      { return a.repos.FoodLogs }
func (a *application) UserRepo() storage.UserRepository         { return a.repos.Users }
func (a *application) ChatRepo() storage.ChatMessageRepository  { return a.repos.Chat }
func (a *application) Auth() *auth.Service                      { return a.auth }
func (a *application) Voice() *voiceagent.Client                { return a.voice }

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	if cfg.DBType == "sqlite" {
		if err := os.MkdirAll("data", 0o755); err != nil {
			logger.Fatalf("failed to create data dir: %v", err)
		}
	}

	repos, err := storage.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	app := &application{
		logger: logger,
		repos:  repos,
		auth:   auth.NewService(repos.Users, []byte(cfg.JWTSecret), logger),
		voice:  voiceagent.NewClient(cfg.ElevenLabs, logger),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(api.RequestIDMiddleware(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Food Track API is running!"})
	})

	// Session issuance and the voice-agent surface stay open; the agent
	// authenticates with provider-side credentials, not user tokens.
	r.POST("/api/auth/continue", api.PostContinue(app))
	r.POST("/api/elevenlabs/webhook", api.PostWebhook(app))
	r.POST("/api/elevenlabs/signed-url", api.PostSignedURL(app))
	r.POST("/api/elevenlabs/tts", api.PostTTS(app))

	// Protected routes
	protected := r.Group("/api", auth.Middleware(app.auth))
	protected.GET("/auth/me", api.GetMe(app))
	protected.GET("/food-logs/:userId", api.GetFoodLogs(app))
	protected.POST("/food-logs", api.PostFoodLog(app))
	protected.GET("/chat/:userId", api.GetChat(app))
	protected.POST("/chat", api.PostChat(app))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Infof("Server running on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("forced shutdown: %v", err)
	}
}
