package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers understood by the persistence gateway.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
)

// AI providers understood by the insights service.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	AI        AIConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
}

// ServerConfig holds HTTP server and process wide options.
type ServerConfig struct {
	Port            string
	LogLevel        string
	DisplayCurrency string
}

// StorageConfig selects where the state blob lives.
type StorageConfig struct {
	Driver      string
	Dir         string
	DSN         string
	MongoURI    string
	MongoDBName string
}

// AIConfig holds settings for the business summary providers.
type AIConfig struct {
	Provider     string
	GeminiKey    string
	AnthropicKey string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	OwnerID       string
}

// SheetsConfig contains configuration required to export to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	LowStockCron string
	ReportCron   string
	ExportCron   string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getenvWithDefault("APP_PORT", "8080"),
			LogLevel:        getenvWithDefault("LOG_LEVEL", "info"),
			DisplayCurrency: strings.ToUpper(getenvWithDefault("DISPLAY_CURRENCY", "USD")),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getenvWithDefault("STORAGE_DRIVER", DriverFile)),
			Dir:         getenvWithDefault("STORAGE_DIR", "./data"),
			DSN:         os.Getenv("DATABASE_DSN"),
			MongoURI:    os.Getenv("MONGODB_URI"),
			MongoDBName: getenvWithDefault("MONGODB_DB_NAME", "stockflow"),
		},
		AI: AIConfig{
			Provider:     strings.ToLower(getenvWithDefault("AI_PROVIDER", ProviderGemini)),
			GeminiKey:    firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("API_KEY")),
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			OwnerID:       os.Getenv("WHATSAPP_OWNER_ID"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			LowStockCron: getenvWithDefault("LOW_STOCK_CRON", "0 8 * * *"),
			ReportCron:   getenvWithDefault("REPORT_CRON", "0 20 * * 5"),
			ExportCron:   getenvWithDefault("EXPORT_CRON", "0 * * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and consistent.
// Integrations (AI, WhatsApp, Sheets) are optional; see their Enabled methods.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if len(c.Server.DisplayCurrency) != 3 {
		return fmt.Errorf("DISPLAY_CURRENCY must be an ISO 4217 code, got %q", c.Server.DisplayCurrency)
	}

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.Dir == "" {
			return errors.New("STORAGE_DIR must not be empty")
		}
	case DriverSQLite, DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("DATABASE_DSN must be provided for %s storage", c.Storage.Driver)
		}
	case DriverMongoDB:
		if c.Storage.MongoURI == "" {
			return errors.New("MONGODB_URI must be provided for mongodb storage")
		}
		if c.Storage.MongoDBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.AI.Provider {
	case ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AI.Provider)
	}

	if c.WhatsApp.Enabled() {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided with GOOGLE_SHEET_DATABASE_ID")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

// APIKey returns the credential of the selected provider, empty when missing.
func (c AIConfig) APIKey() string {
	if c.Provider == ProviderAnthropic {
		return c.AnthropicKey
	}
	return c.GeminiKey
}

// Enabled reports whether enough WhatsApp settings are present to talk to Meta.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

// Enabled reports whether the Sheets export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
