package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fortaxe/food-track-backend/internal"
)

// SQLiteStorage is the embedded backend used for development and single-node
// deployments. Timestamps are stored in RFC 3339 with millisecond precision
// so the inclusive window comparisons stay exact.
type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

const sqliteTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func NewSQLiteStorage(dbPath string, logger internal.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		logger.Errorf("failed to open sqlite database: %v", err)
		return nil, err
	}
	s := &SQLiteStorage{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		logger.Errorf("failed to initialize sqlite schema: %v", err)
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        email TEXT NOT NULL UNIQUE,
        name TEXT NOT NULL DEFAULT '',
        password_hash TEXT NOT NULL DEFAULT '',
        email_verified INTEGER NOT NULL DEFAULT 0,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS food_logs (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        meal_type TEXT NOT NULL,
        food_items TEXT NOT NULL,
        notes TEXT,
        logged_at TEXT NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_food_logs_user_logged_at ON food_logs (user_id, logged_at);
    CREATE INDEX IF NOT EXISTS idx_food_logs_user_meal ON food_logs (user_id, meal_type, logged_at);

    CREATE TABLE IF NOT EXISTS chat_messages (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        role TEXT NOT NULL,
        content TEXT NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_chat_messages_user_created_at ON chat_messages (user_id, created_at);
    `
	_, err := s.db.Exec(schema)
	return err
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, s)
}

// --- FoodLogRepository ---

func (s *SQLiteStorage) SaveFoodLog(ctx context.Context, log *internal.FoodLog) error {
	items, err := json.Marshal(log.FoodItems)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO food_logs (id, user_id, meal_type, food_items, notes, logged_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.UserID, log.MealType, string(items), log.Notes, encodeTime(log.LoggedAt), encodeTime(log.CreatedAt))
	if err != nil {
		s.logger.Errorf("failed to insert food log: %v", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) UpdateFoodLog(ctx context.Context, log *internal.FoodLog) error {
	items, err := json.Marshal(log.FoodItems)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE food_logs SET food_items = ?, logged_at = ? WHERE id = ?`,
		string(items), encodeTime(log.LoggedAt), log.ID)
	if err != nil {
		s.logger.Errorf("failed to update food log: %v", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) FindFoodLogInWindow(ctx context.Context, userID, mealType string, start, end time.Time) (*internal.FoodLog, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, meal_type, food_items, notes, logged_at, created_at FROM food_logs WHERE user_id = ? AND meal_type = ? AND logged_at >= ? AND logged_at <= ? LIMIT 1`,
		userID, mealType, encodeTime(start), encodeTime(end))
	log, err := s.scanFoodLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrNotFound
		}
		s.logger.Errorf("failed to query food log window: %v", err)
		return nil, err
	}
	return log, nil
}

func (s *SQLiteStorage) ListFoodLogs(ctx context.Context, userID string) ([]internal.FoodLog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, meal_type, food_items, notes, logged_at, created_at FROM food_logs WHERE user_id = ? ORDER BY logged_at DESC`, userID)
	if err != nil {
		s.logger.Errorf("failed to query food logs: %v", err)
		return nil, err
	}
	defer rows.Close()
	return s.collectFoodLogs(rows)
}

func (s *SQLiteStorage) ListFoodLogsInRange(ctx context.Context, userID string, start, end time.Time) ([]internal.FoodLog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, meal_type, food_items, notes, logged_at, created_at FROM food_logs WHERE user_id = ? AND logged_at >= ? AND logged_at <= ? ORDER BY logged_at DESC`,
		userID, encodeTime(start), encodeTime(end))
	if err != nil {
		s.logger.Errorf("failed to query food logs in range: %v", err)
		return nil, err
	}
	defer rows.Close()
	return s.collectFoodLogs(rows)
}

func (s *SQLiteStorage) scanFoodLog(row rowScanner) (*internal.FoodLog, error) {
	var l internal.FoodLog
	var items, loggedAt, createdAt string
	if err := row.Scan(&l.ID, &l.UserID, &l.MealType, &items, &l.Notes, &loggedAt, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &l.FoodItems); err != nil {
		return nil, err
	}
	var err error
	if l.LoggedAt, err = decodeTime(loggedAt); err != nil {
		return nil, err
	}
	if l.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *SQLiteStorage) collectFoodLogs(rows *sql.Rows) ([]internal.FoodLog, error) {
	var logs []internal.FoodLog
	for rows.Next() {
		l, err := s.scanFoodLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

// --- UserRepository ---

func (s *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, email, name, password_hash, email_verified, created_at, updated_at FROM users WHERE email = ?`, email)
	var u internal.User
	var createdAt, updatedAt string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.EmailVerified, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrNotFound
		}
		s.logger.Errorf("failed to query user: %v", err)
		return nil, err
	}
	var err error
	if u.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, email, name, password_hash, email_verified, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.EmailVerified, encodeTime(user.CreatedAt), encodeTime(user.UpdatedAt))
	if err != nil {
		s.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	return nil
}

// --- ChatMessageRepository ---

func (s *SQLiteStorage) SaveChatMessage(ctx context.Context, msg *internal.ChatMessage) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO chat_messages (id, user_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.UserID, msg.Role, msg.Content, encodeTime(msg.CreatedAt))
	if err != nil {
		s.logger.Errorf("failed to insert chat message: %v", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) ListChatMessages(ctx context.Context, userID string) ([]internal.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, role, content, created_at FROM chat_messages WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		s.logger.Errorf("failed to query chat messages: %v", err)
		return nil, err
	}
	defer rows.Close()

	var msgs []internal.ChatMessage
	for rows.Next() {
		var m internal.ChatMessage
		var createdAt string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// --- Compile-time assertions ---
var _ FoodLogRepository = (*SQLiteStorage)(nil)
var _ UserRepository = (*SQLiteStorage)(nil)
var _ ChatMessageRepository = (*SQLiteStorage)(nil)
