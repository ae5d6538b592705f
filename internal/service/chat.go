package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/storage"
)

type ChatMessageRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

func ValidateChatMessageRequest(req *ChatMessageRequest) error {
	return validate.Struct(req)
}

// SaveChatMessage appends one message to a user's conversation. The chat
// store is insert-only; messages are read back in creation order.
func SaveChatMessage(ctx context.Context, repo storage.ChatMessageRepository, req *ChatMessageRequest) (*internal.ChatMessage, error) {
	msg := &internal.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Role:      req.Role,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.SaveChatMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func ListChatMessages(ctx context.Context, repo storage.ChatMessageRepository, userID string) ([]internal.ChatMessage, error) {
	if userID == "" {
		return nil, internal.ErrInvalidRequest
	}
	return repo.ListChatMessages(ctx, userID)
}
