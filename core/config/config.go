package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App        AppConfig
	MCP        MCPConfig
	Paths      PathsConfig
	Database   DatabaseConfig
	Wizard     WizardConfig
	WorkerPool WorkerPoolConfig
	Security   SecurityConfig
	APIKeys    APIKeysConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasePath           string
	CorsAllowedOrigins []string
	ServerID           string
}

type MCPConfig struct {
	Port string
	Host string
	// Embedded starts the SSE server inside the rest command.
	Embedded bool
}

type PathsConfig struct {
	Storages string
}

type DatabaseConfig struct {
	Driver          string // gorm dialect: sqlite | postgres
	Host            string
	Port            int
	User            string
	Password        string
	Name            string // File path for SQLite, DB Name for Postgres
	RawSQL          bool   // use the database/sql repository instead of gorm
	ValkeyEnabled   bool
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
}

type WizardConfig struct {
	Profile          string
	AutosaveDebounce time.Duration
	DraftTTL         time.Duration
	PreviewTimeout   time.Duration
	DiscoverModels   bool
}

type WorkerPoolConfig struct {
	Size      int
	QueueSize int
}

type SecurityConfig struct {
	SecretKey string
}

type APIKeysConfig struct {
	Gemini string
	OpenAI string
}

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	storages := getEnv("APP_BASE_DIR", "storages")

	cors := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := os.Getenv("APP_CORS_ALLOWED_ORIGINS"); v != "" {
		cors = strings.Split(v, ",")
	}

	cfg := &Config{
		App: AppConfig{
			Version:            "v0.3.0",
			Port:               getEnv("APP_PORT", "3000"),
			Debug:              getEnvBool("APP_DEBUG", false),
			Environment:        getEnv("APP_ENV", "development"),
			BasePath:           getEnv("APP_BASE_PATH", ""),
			CorsAllowedOrigins: cors,
			ServerID:           getEnv("SERVER_ID", ""),
		},
		MCP: MCPConfig{
			Port:     getEnv("MCP_PORT", "8080"),
			Host:     getEnv("MCP_HOST", "localhost"),
			Embedded: getEnvBool("MCP_EMBEDDED", true),
		},
		Paths: PathsConfig{Storages: storages},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Name:            getEnv("DB_NAME", filepath.Join(storages, "console.db")),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			RawSQL:          getEnvBool("DB_RAW_SQL", false),
			ValkeyEnabled:   getEnvBool("VALKEY_ENABLED", false),
			ValkeyAddress:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
			ValkeyPassword:  getEnv("VALKEY_PASSWORD", ""),
			ValkeyDB:        getEnvInt("VALKEY_DB", 0),
			ValkeyKeyPrefix: getEnv("VALKEY_KEY_PREFIX", "azconsole:"),
		},
		Wizard: WizardConfig{
			Profile:          getEnv("WIZARD_PROFILE", "standard"),
			AutosaveDebounce: getEnvDuration("WIZARD_AUTOSAVE_DEBOUNCE", 1500*time.Millisecond),
			DraftTTL:         getEnvDuration("WIZARD_DRAFT_TTL", 7*24*time.Hour),
			PreviewTimeout:   getEnvDuration("WIZARD_PREVIEW_TIMEOUT", 10*time.Second),
			DiscoverModels:   getEnvBool("WIZARD_DISCOVER_MODELS", false),
		},
		WorkerPool: WorkerPoolConfig{
			Size:      getEnvInt("WIZARD_WORKER_POOL_SIZE", 8),
			QueueSize: getEnvInt("WIZARD_WORKER_QUEUE_SIZE", 256),
		},
		Security: SecurityConfig{SecretKey: getEnv("APP_SECRET_KEY", "")},
		APIKeys: APIKeysConfig{
			Gemini: getEnv("GEMINI_API_KEY", ""),
			OpenAI: getEnv("OPENAI_API_KEY", ""),
		},
	}

	Global = cfg
	return cfg, nil
}
