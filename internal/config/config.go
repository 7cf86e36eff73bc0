package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Email providers understood by the notification gateway.
const (
	EmailProviderConsole  = "console"
	EmailProviderSMTP     = "smtp"
	EmailProviderSendGrid = "sendgrid"
)

// Storage drivers.
// SMTP transport security modes.
const (
	SMTPTLSNone     = "none"
	SMTPTLSStartTLS = "starttls"
	SMTPTLSImplicit = "implicit"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Certificate renderers.
const (
	RendererFPDF     = "fpdf"
	RendererChromeDP = "chromedp"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		// BaseURL is the public address used in links sent by email.
		BaseURL string `yaml:"base_url" env:"SERVER_BASE_URL"`
	} `yaml:"server"`

	Database struct {
		// Driver selects PostgreSQL or the in-memory store.
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Email struct {
		Provider       string `yaml:"provider" env:"EMAIL_PROVIDER"`
		Host           string `yaml:"host" env:"SMTP_HOST"`
		Port           int    `yaml:"port" env:"SMTP_PORT"`
		Username       string `yaml:"username" env:"SMTP_USERNAME"`
		Password       string `yaml:"password" env:"SMTP_PASSWORD"`
		TLSMode        string `yaml:"tls_mode" env:"SMTP_TLS_MODE"`
		SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
		FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
		FromEmail      string `yaml:"from_email" env:"EMAIL_FROM"`
		// OperatorEmail receives homework submission notices.
		OperatorEmail string `yaml:"operator_email" env:"EMAIL_OPERATOR"`
	} `yaml:"email"`

	Notifications struct {
		MaxInFlight int    `yaml:"max_in_flight" env:"NOTIFY_MAX_IN_FLIGHT"`
		Timeout     string `yaml:"timeout" env:"NOTIFY_TIMEOUT"`
	} `yaml:"notifications"`

	Certificate struct {
		Renderer string `yaml:"renderer" env:"CERTIFICATE_RENDERER"`
		Compress bool   `yaml:"compress" env:"CERTIFICATE_COMPRESS"`
		// Template is the HTML template used by the chromedp renderer.
		Template string `yaml:"template" env:"CERTIFICATE_TEMPLATE"`
	} `yaml:"certificate"`

	Seed struct {
		Enabled bool `yaml:"enabled" env:"SEED_ENABLED"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Variables already present in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.BaseURL = "http://localhost:8080"

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "minilms"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Email.Provider = EmailProviderConsole
	config.Email.Port = 587
	config.Email.TLSMode = SMTPTLSStartTLS
	config.Email.FromName = "MiniLMS"
	config.Email.FromEmail = "noreply@minilms.local"

	config.Notifications.MaxInFlight = 32
	config.Notifications.Timeout = "10s"

	config.Certificate.Renderer = RendererFPDF
	config.Certificate.Compress = true
	config.Certificate.Template = "templates/certificate.html"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Server.StoragePath == "" {
		return fmt.Errorf("server storage path is required")
	}

	switch strings.ToLower(config.Database.Driver) {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", config.Database.Driver)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection max lifetime: %w", err)
	}

	if _, err := time.ParseDuration(config.Notifications.Timeout); err != nil {
		return fmt.Errorf("invalid notification timeout: %w", err)
	}

	switch strings.ToLower(config.Email.Provider) {
	case EmailProviderConsole:
	case EmailProviderSMTP:
		if config.Email.Host == "" {
			return fmt.Errorf("SMTP host is required for the smtp email provider")
		}
		switch config.Email.TLSMode {
		case SMTPTLSNone, SMTPTLSStartTLS, SMTPTLSImplicit:
		default:
			return fmt.Errorf("unknown SMTP TLS mode %q", config.Email.TLSMode)
		}
	case EmailProviderSendGrid:
		if config.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required for the sendgrid email provider")
		}
	default:
		return fmt.Errorf("unknown email provider %q", config.Email.Provider)
	}

	switch strings.ToLower(config.Certificate.Renderer) {
	case RendererFPDF, RendererChromeDP:
	default:
		return fmt.Errorf("unknown certificate renderer %q", config.Certificate.Renderer)
	}

	return nil
}

// OperatorAddress returns the address that receives homework notices,
// falling back to the sender address like a default-from mailbox.
func (c *Config) OperatorAddress() string {
	if c.Email.OperatorEmail != "" {
		return c.Email.OperatorEmail
	}
	return c.Email.FromEmail
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
