package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	CORS    CORSConfig
	Parser  ParserConfig
	Import  ImportConfig
	Storage StorageConfig
	Billing BillingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserConfig holds settings for the AI fallback line-item parser.
type ParserConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// Enabled reports whether the fallback parser is configured.
func (p *ParserConfig) Enabled() bool {
	return p.APIKey != ""
}

// ImportConfig holds invoice upload and batch import directories.
type ImportConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
	ImportDir string `mapstructure:"import_dir"`
}

// StorageConfig selects where uploaded invoice files are kept.
type StorageConfig struct {
	Provider string   `mapstructure:"provider"` // "local" or "s3"
	S3       S3Config `mapstructure:"s3"`
}

// S3Config holds AWS S3 settings for the s3 storage provider.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// BillingConfig holds payment instructions rendered into exports.
type BillingConfig struct {
	IBAN           string `mapstructure:"iban"`
	AccountDisplay string `mapstructure:"account_display"`
	MessagePrefix  string `mapstructure:"message_prefix"`
}

// Load reads configuration from environment variables with the PHONEBILLS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PHONEBILLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "phonebills")
	v.SetDefault("db.password", "phonebills")
	v.SetDefault("db.name", "phonebills")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:4200,http://127.0.0.1:4200")

	// Fallback parser defaults
	v.SetDefault("parser.provider", "claude")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("parser.timeout_secs", 120)

	// Import defaults
	v.SetDefault("import.upload_dir", "./uploads")
	v.SetDefault("import.import_dir", "")

	// Storage defaults
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.s3.region", "eu-central-1")
	v.SetDefault("storage.s3.bucket", "phonebills-invoices")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.key_prefix", "invoices/")

	// Billing defaults
	v.SetDefault("billing.iban", "")
	v.SetDefault("billing.account_display", "")
	v.SetDefault("billing.message_prefix", "Vyuctovani telefonu")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Viper reads comma-separated lists from env as a single string.
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
