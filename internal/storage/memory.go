package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fortaxe/food-track-backend/internal"
)

// MemoryStorage keeps everything in process memory. Used in tests and as a
// throwaway development backend; nothing survives a restart.
type MemoryStorage struct {
	mu            sync.RWMutex
	foodLogs      map[string]*internal.FoodLog   // id -> FoodLog
	userFoodIndex map[string][]*internal.FoodLog // userID -> logs, LoggedAt descending
	usersByEmail  map[string]*internal.User
	chatMessages  map[string][]*internal.ChatMessage // userID -> messages, CreatedAt ascending
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		foodLogs:      make(map[string]*internal.FoodLog),
		userFoodIndex: make(map[string][]*internal.FoodLog),
		usersByEmail:  make(map[string]*internal.User),
		chatMessages:  make(map[string][]*internal.ChatMessage),
	}
}

// --- FoodLogRepository ---

func (s *MemoryStorage) SaveFoodLog(ctx context.Context, log *internal.FoodLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *log
	s.foodLogs[cp.ID] = &cp
	s.userFoodIndex[cp.UserID] = append(s.userFoodIndex[cp.UserID], &cp)
	s.resortLocked(cp.UserID)
	return nil
}

func (s *MemoryStorage) UpdateFoodLog(ctx context.Context, log *internal.FoodLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.foodLogs[log.ID]
	if !ok {
		return internal.ErrNotFound
	}
	existing.FoodItems = append([]string(nil), log.FoodItems...)
	existing.LoggedAt = log.LoggedAt
	s.resortLocked(existing.UserID)
	return nil
}

func (s *MemoryStorage) FindFoodLogInWindow(ctx context.Context, userID, mealType string, start, end time.Time) (*internal.FoodLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.userFoodIndex[userID] {
		if l.MealType == mealType && !l.LoggedAt.Before(start) && !l.LoggedAt.After(end) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, internal.ErrNotFound
}

func (s *MemoryStorage) ListFoodLogs(ctx context.Context, userID string) ([]internal.FoodLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := make([]internal.FoodLog, 0, len(s.userFoodIndex[userID]))
	for _, l := range s.userFoodIndex[userID] {
		logs = append(logs, *l)
	}
	return logs, nil
}

func (s *MemoryStorage) ListFoodLogsInRange(ctx context.Context, userID string, start, end time.Time) ([]internal.FoodLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var logs []internal.FoodLog
	for _, l := range s.userFoodIndex[userID] {
		if !l.LoggedAt.Before(start) && !l.LoggedAt.After(end) {
			logs = append(logs, *l)
		}
	}
	return logs, nil
}

// resortLocked keeps a user's index sorted by LoggedAt descending. Callers
// must hold the write lock.
func (s *MemoryStorage) resortLocked(userID string) {
	idx := s.userFoodIndex[userID]
	sort.Slice(idx, func(i, j int) bool {
		return idx[i].LoggedAt.After(idx[j].LoggedAt)
	})
}

// --- UserRepository ---

func (s *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usersByEmail[email]
	if !ok {
		return nil, internal.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStorage) CreateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.usersByEmail[cp.Email] = &cp
	return nil
}

// --- ChatMessageRepository ---

func (s *MemoryStorage) SaveChatMessage(ctx context.Context, msg *internal.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *msg
	s.chatMessages[cp.UserID] = append(s.chatMessages[cp.UserID], &cp)
	sort.Slice(s.chatMessages[cp.UserID], func(i, j int) bool {
		return s.chatMessages[cp.UserID][i].CreatedAt.Before(s.chatMessages[cp.UserID][j].CreatedAt)
	})
	return nil
}

func (s *MemoryStorage) ListChatMessages(ctx context.Context, userID string) ([]internal.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]internal.ChatMessage, 0, len(s.chatMessages[userID]))
	for _, m := range s.chatMessages[userID] {
		msgs = append(msgs, *m)
	}
	return msgs, nil
}

// --- Compile-time assertions ---
var _ FoodLogRepository = (*MemoryStorage)(nil)
var _ UserRepository = (*MemoryStorage)(nil)
var _ ChatMessageRepository = (*MemoryStorage)(nil)
