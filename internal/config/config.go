package config

import (
	"errors"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	LogLevel   string
	Port       string
	DBType     string
	DBDSN      string
	SQLitePath string
	JWTSecret  string
	ElevenLabs ElevenLabsConfig
}

// ElevenLabsConfig holds credentials for the voice-agent provider.
// AgentID is only needed by the signed-url endpoint; the webhook itself
// requires nothing from here.
type ElevenLabsConfig struct {
	APIKey  string
	AgentID string
	VoiceID string
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = &Config{
			Env:        getEnv("APP_ENV", "development"),
			LogLevel:   getEnv("LOG_LEVEL", "info"),
			Port:       getEnv("PORT", "4000"),
			DBType:     getEnv("STORAGE_BACKEND", "sqlite"),
			DBDSN:      getEnv("POSTGRES_DSN", ""),
			SQLitePath: getEnv("SQLITE_PATH", "data/foodtrack.db"),
			JWTSecret:  getEnv("JWT_SECRET", "your-secret-key"),
			ElevenLabs: ElevenLabsConfig{
				APIKey:  getEnv("ELEVENLABS_API_KEY", ""),
				AgentID: getEnv("ELEVENLABS_AGENT_ID", ""),
				VoiceID: getEnv("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
			},
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "sqlite" && c.SQLitePath == "" {
		return errors.New("SQLite storage requires SQLITE_PATH to be set")
	}
	if c.DBType != "postgres" && c.DBType != "sqlite" && c.DBType != "memory" {
		return errors.New("STORAGE_BACKEND must be one of: postgres, sqlite, memory")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env == "production" && c.JWTSecret == "your-secret-key" {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
