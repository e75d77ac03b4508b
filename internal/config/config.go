package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Logging    LoggingConfig
	Data       DataConfig
	PostgreSQL PostgreSQLConfig
	Session    SessionConfig
	Chat       ChatConfig
	OpenAI     OpenAIConfig
	Metrics    MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int           `env:"SERVER_PORT" envDefault:"8080" validate:"min=1,max=65535"`
	Host           string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	GinMode        string        `env:"GIN_MODE" envDefault:"release" validate:"oneof=debug release test"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	AllowedMethods []string      `env:"CORS_ALLOWED_METHODS" envDefault:"GET,POST,OPTIONS" envSeparator:","`
	AllowedHeaders []string      `env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type,Authorization,X-Request-Id" envSeparator:","`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	Format string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

// DataConfig controls where the property dataset is loaded from
type DataConfig struct {
	Source     string `env:"DATA_SOURCE" envDefault:"csv" validate:"oneof=csv postgres"`
	CSVDir     string `env:"DATA_CSV_DIR" envDefault:"./data" validate:"required_if=Source csv"`
	SchemaFile string `env:"DATA_SCHEMA_FILE"` // optional YAML override of the source-field mapping
	FailFast   bool   `env:"DATA_FAIL_FAST" envDefault:"false"`
	// StrictNumericFilters excludes zero prices/areas from budget and area bounds.
	StrictNumericFilters bool `env:"DATA_STRICT_NUMERIC_FILTERS" envDefault:"true"`
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string `env:"DATABASE_URL"` // takes precedence over the individual fields
	Host               string `env:"PG_HOST" envDefault:"localhost"`
	Port               int    `env:"PG_PORT" envDefault:"5432"`
	User               string `env:"PG_USER" envDefault:"postgres"`
	Password           string `env:"PG_PASSWORD"`
	Database           string `env:"PG_DATABASE" envDefault:"property_search"`
	SSLMode            string `env:"PG_SSLMODE" envDefault:"disable"`
	MaxConnections     int    `env:"PG_MAX_CONNECTIONS" envDefault:"10" validate:"min=1"`
	MaxIdleConnections int    `env:"PG_MAX_IDLE_CONNECTIONS" envDefault:"2" validate:"min=0"`
}

// SessionConfig holds conversation-state storage configuration
type SessionConfig struct {
	Backend         string `env:"SESSION_BACKEND" envDefault:"memory" validate:"oneof=memory redis"`
	HistorySize     int    `env:"SESSION_HISTORY_SIZE" envDefault:"10" validate:"min=1"`
	LastResultsSize int    `env:"SESSION_LAST_RESULTS_SIZE" envDefault:"10" validate:"min=0"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379" validate:"required_if=Backend redis"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0" validate:"min=0"`
	RedisKeyPrefix  string `env:"REDIS_KEY_PREFIX" envDefault:"propchat:session:"`
}

// ChatConfig holds chat endpoint limits
type ChatConfig struct {
	MaxResults       int `env:"CHAT_MAX_RESULTS" envDefault:"10" validate:"min=1,max=100"`
	MaxMessageLength int `env:"CHAT_MAX_MESSAGE_LENGTH" envDefault:"500" validate:"min=1"`
}

// OpenAIConfig holds configuration for the OpenAI-compatible completion API
type OpenAIConfig struct {
	APIKey      string        `env:"OPENAI_API_KEY"`
	APIBase     string        `env:"OPENAI_API_BASE" envDefault:"https://api.openai.com/v1"`
	ChatModel   string        `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-3.5-turbo"`
	Temperature float32       `env:"OPENAI_CHAT_TEMPERATURE" envDefault:"0.1" validate:"min=0,max=2"`
	MaxTokens   int           `env:"OPENAI_CHAT_MAX_TOKENS" envDefault:"200" validate:"min=1"`
	JSONMode    bool          `env:"OPENAI_JSON_MODE" envDefault:"true"`
	Timeout     time.Duration `env:"OPENAI_TIMEOUT" envDefault:"8s" validate:"min=1ms"`
	Enabled     bool          `env:"-"`
}

// MetricsConfig holds prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics" validate:"startswith=/"`
}

// Load reads configuration from the environment, after an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse()
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.OpenAI.APIBase = strings.TrimRight(cfg.OpenAI.APIBase, "/")
	cfg.OpenAI.Enabled = strings.TrimSpace(cfg.OpenAI.APIKey) != ""

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints declared with validate tags
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}
