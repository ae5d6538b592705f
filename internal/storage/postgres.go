package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/storage/migrations"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

// RunMigrations applies the embedded goose migrations over a database/sql
// connection; the pgx pool stays untouched.
func RunMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (p *PostgresStorage) Close() {
	p.pool.Close()
}

// --- FoodLogRepository ---

func (p *PostgresStorage) SaveFoodLog(ctx context.Context, log *internal.FoodLog) error {
	items, err := json.Marshal(log.FoodItems)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO food_logs (id, user_id, meal_type, food_items, notes, logged_at, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.ID, log.UserID, log.MealType, string(items), log.Notes, log.LoggedAt, log.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert food log: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) UpdateFoodLog(ctx context.Context, log *internal.FoodLog) error {
	items, err := json.Marshal(log.FoodItems)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `UPDATE food_logs SET food_items = $1, logged_at = $2 WHERE id = $3`,
		string(items), log.LoggedAt, log.ID)
	if err != nil {
		p.logger.Errorf("failed to update food log: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) FindFoodLogInWindow(ctx context.Context, userID, mealType string, start, end time.Time) (*internal.FoodLog, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, user_id, meal_type, food_items, notes, logged_at, created_at FROM food_logs WHERE user_id = $1 AND meal_type = $2 AND logged_at >= $3 AND logged_at <= $4 LIMIT 1`,
		userID, mealType, start, end)
	log, err := scanFoodLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrNotFound
		}
		p.logger.Errorf("failed to query food log window: %v", err)
		return nil, err
	}
	return log, nil
}

func (p *PostgresStorage) ListFoodLogs(ctx context.Context, userID string) ([]internal.FoodLog, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, meal_type, food_items, notes, logged_at, created_at FROM food_logs WHERE user_id = $1 ORDER BY logged_at DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query food logs: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectFoodLogs(rows)
}

func (p *PostgresStorage) ListFoodLogsInRange(ctx context.Context, userID string, start, end time.Time) ([]internal.FoodLog, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, meal_type, food_items, notes, logged_at, created_at FROM food_logs WHERE user_id = $1 AND logged_at >= $2 AND logged_at <= $3 ORDER BY logged_at DESC`,
		userID, start, end)
	if err != nil {
		p.logger.Errorf("failed to query food logs in range: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectFoodLogs(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFoodLog(row rowScanner) (*internal.FoodLog, error) {
	var l internal.FoodLog
	var items string
	if err := row.Scan(&l.ID, &l.UserID, &l.MealType, &items, &l.Notes, &l.LoggedAt, &l.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &l.FoodItems); err != nil {
		return nil, err
	}
	return &l, nil
}

func collectFoodLogs(rows pgx.Rows) ([]internal.FoodLog, error) {
	var logs []internal.FoodLog
	for rows.Next() {
		l, err := scanFoodLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

// --- UserRepository ---

func (p *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, email, name, password_hash, email_verified, created_at, updated_at FROM users WHERE email = $1`, email)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrNotFound
		}
		p.logger.Errorf("failed to query user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (p *PostgresStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, email, name, password_hash, email_verified, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.EmailVerified, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	return nil
}

// --- ChatMessageRepository ---

func (p *PostgresStorage) SaveChatMessage(ctx context.Context, msg *internal.ChatMessage) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO chat_messages (id, user_id, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.UserID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert chat message: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListChatMessages(ctx context.Context, userID string) ([]internal.ChatMessage, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, role, content, created_at FROM chat_messages WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query chat messages: %v", err)
		return nil, err
	}
	defer rows.Close()

	var msgs []internal.ChatMessage
	for rows.Next() {
		var m internal.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// --- Compile-time assertions ---
var _ FoodLogRepository = (*PostgresStorage)(nil)
var _ UserRepository = (*PostgresStorage)(nil)
var _ ChatMessageRepository = (*PostgresStorage)(nil)
