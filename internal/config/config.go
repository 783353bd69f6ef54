package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Stripe    StripeConfig    `yaml:"stripe"`
	Geocode   GeocodeConfig   `yaml:"geocode"`
	Currency  CurrencyConfig  `yaml:"currency"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Payment   PaymentConfig   `yaml:"payment"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	GRPCPort int    `yaml:"grpc_port"`
	BaseURL  string `yaml:"base_url"` // Public URL used in emails and storage links
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains token settings
type JWTConfig struct {
	Secret                string `yaml:"secret"`
	AccessTokenExpiry     int    `yaml:"access_token_expiry_minutes"`
	InvitationTokenExpiry int    `yaml:"invitation_token_expiry_hours"`
	Issuer                string `yaml:"issuer"`
}

// SendGridConfig contains transactional email settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// StripeConfig contains payment processor settings
type StripeConfig struct {
	SecretKey     string            `yaml:"secret_key"`
	WebhookSecret string            `yaml:"webhook_secret"`
	PriceIDs      map[string]string `yaml:"price_ids"` // plan id -> processor price id
}

// GeocodeConfig selects the reverse geocoding provider
type GeocodeConfig struct {
	Provider          string  `yaml:"provider"` // "nominatim" or "google"
	NominatimURL      string  `yaml:"nominatim_url"`
	UserAgent         string  `yaml:"user_agent"`
	GoogleAPIKey      string  `yaml:"google_api_key"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// CurrencyConfig contains display currency settings
type CurrencyConfig struct {
	Default string            `yaml:"default"`
	Rates   map[string]string `yaml:"rates"` // decimal strings, USD based
}

// StorageConfig contains vehicle picture storage settings
type StorageConfig struct {
	Type         string   `yaml:"type"`       // only "mock" is implemented
	UploadDir    string   `yaml:"upload_dir"` // For mock storage
	MaxFileSize  int64    `yaml:"max_file_size_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings (seconds precision, UTC)
type SchedulerConfig struct {
	CompleteEndedBookings      string `yaml:"complete_ended_bookings"`
	SendInstallmentReminders   string `yaml:"send_installment_reminders"`
	AdvanceInstallments        string `yaml:"advance_installments"`
	ExpireStalePaymentSessions string `yaml:"expire_stale_payment_sessions"`
}

// PaymentConfig contains checkout settings
type PaymentConfig struct {
	SessionTTLMinutes int `yaml:"session_ttl_minutes"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Secrets
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("STRIPE_SECRET_KEY"); val != "" {
		c.Stripe.SecretKey = val
	}
	if val := os.Getenv("STRIPE_WEBHOOK_SECRET"); val != "" {
		c.Stripe.WebhookSecret = val
	}
	if val := os.Getenv("GOOGLE_MAPS_API_KEY"); val != "" {
		c.Geocode.GoogleAPIKey = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("GRPC_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.GRPCPort)
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = c.Server.Port + 1
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 || c.Server.GRPCPort == c.Server.Port {
		return fmt.Errorf("invalid grpc port: %d", c.Server.GRPCPort)
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://%s:%d", hostOrLocalhost(c.Server.Host), c.Server.Port)
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.InvitationTokenExpiry == 0 {
		c.JWT.InvitationTokenExpiry = 72
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "carrental-backend"
	}

	if c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from_email is required")
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "Car Rental"
	}

	switch c.Geocode.Provider {
	case "":
		c.Geocode.Provider = "nominatim"
	case "nominatim", "google":
	default:
		return fmt.Errorf("unknown geocode provider: %s", c.Geocode.Provider)
	}
	if c.Geocode.Provider == "google" && c.Geocode.GoogleAPIKey == "" {
		return fmt.Errorf("google geocode provider requires google_api_key")
	}
	if c.Geocode.NominatimURL == "" {
		c.Geocode.NominatimURL = "https://nominatim.openstreetmap.org"
	}
	if c.Geocode.UserAgent == "" {
		c.Geocode.UserAgent = "carrental-backend/1.0"
	}
	if c.Geocode.RequestsPerSecond <= 0 {
		c.Geocode.RequestsPerSecond = 1 // Nominatim usage policy
	}

	if c.Currency.Default == "" {
		c.Currency.Default = "USD"
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "mock"
	}
	if c.Storage.Type != "mock" {
		return fmt.Errorf("storage type %q not yet implemented", c.Storage.Type)
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 10
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}

	if c.Payment.SessionTTLMinutes == 0 {
		c.Payment.SessionTTLMinutes = 30
	}

	if c.Scheduler.CompleteEndedBookings == "" {
		c.Scheduler.CompleteEndedBookings = "0 0 * * * *" // Hourly
	}
	if c.Scheduler.SendInstallmentReminders == "" {
		c.Scheduler.SendInstallmentReminders = "0 0 9 * * *" // 9 AM UTC
	}
	if c.Scheduler.AdvanceInstallments == "" {
		c.Scheduler.AdvanceInstallments = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.ExpireStalePaymentSessions == "" {
		c.Scheduler.ExpireStalePaymentSessions = "0 */10 * * * *" // Every 10 minutes
	}

	return nil
}

func hostOrLocalhost(host string) string {
	if host == "" || host == "0.0.0.0" {
		return "localhost"
	}
	return host
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the health-check gRPC listen address
func (c *Config) GetGRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}
