package api

import (
	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/auth"
	"github.com/fortaxe/food-track-backend/internal/storage"
	"github.com/fortaxe/food-track-backend/internal/voiceagent"
)

type App interface {
	Logger() internal.Logger
	FoodRepo() storage.FoodLogRepository
	UserRepo() storage.UserRepository
	ChatRepo() storage.ChatMessageRepository
	Auth() *auth.Service
	Voice() *voiceagent.Client
}
