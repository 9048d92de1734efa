package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Job sources
const (
	SourceSheets   = "sheets"
	SourcePostgres = "postgres"
	SourceMemory   = "memory"
)

// Config is read from the environment, optionally seeded from a .env file
type Config struct {
	JobSource string `validate:"oneof=sheets postgres memory"`

	AppsScriptURL  string `validate:"required_if=JobSource sheets"`
	SheetsCacheTTL time.Duration
	SheetsTimeout  time.Duration `validate:"gt=0"`
	SheetsRetries  uint64        `validate:"lte=10"`

	DatabaseURL string `validate:"required_if=JobSource postgres"`

	Port        int `validate:"gt=0,lte=65535"`
	CORSOrigins []string

	ReportTimezone string
	CurrencySymbol string

	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogJSON  bool

	WhatsAppAPIURL          string `validate:"omitempty,url"`
	WhatsAppPhoneNumberID   string
	WhatsAppAccessToken     string
	WhatsAppDefaultRegion   string `validate:"len=2"`
	WhatsAppMessageTemplate string
}

var validate = validator.New()

// Load reads .env (if present) and the environment. Non-empty overrides
// win over both, which lets command-line flags pick the job source.
func Load(overrides map[string]string) (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(func(key string) string {
		if v := overrides[key]; v != "" {
			return v
		}
		return os.Getenv(key)
	})
}

// FromEnv builds a config from a lookup function, applying defaults
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		JobSource:               strings.ToLower(env("JOB_SOURCE", SourceSheets)),
		AppsScriptURL:           env("APPS_SCRIPT_URL", ""),
		DatabaseURL:             env("DATABASE_URL", ""),
		CORSOrigins:             splitList(env("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000,http://localhost:5000")),
		ReportTimezone:          env("REPORT_TIMEZONE", "UTC"),
		CurrencySymbol:          env("CURRENCY_SYMBOL", "₹"),
		LogLevel:                strings.ToLower(env("LOG_LEVEL", "info")),
		WhatsAppAPIURL:          env("WHATSAPP_API_URL", "https://graph.facebook.com/v19.0"),
		WhatsAppPhoneNumberID:   env("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppAccessToken:     env("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppDefaultRegion:   strings.ToUpper(env("WHATSAPP_DEFAULT_REGION", "IN")),
		WhatsAppMessageTemplate: env("WHATSAPP_MESSAGE_TEMPLATE", ""),
	}

	var err error
	if cfg.SheetsCacheTTL, err = time.ParseDuration(env("SHEETS_CACHE_TTL", "2m")); err != nil {
		return nil, fmt.Errorf("SHEETS_CACHE_TTL: %w", err)
	}
	if cfg.SheetsTimeout, err = time.ParseDuration(env("SHEETS_TIMEOUT", "12s")); err != nil {
		return nil, fmt.Errorf("SHEETS_TIMEOUT: %w", err)
	}
	if cfg.SheetsRetries, err = strconv.ParseUint(env("SHEETS_RETRIES", "3"), 10, 64); err != nil {
		return nil, fmt.Errorf("SHEETS_RETRIES: %w", err)
	}
	if cfg.Port, err = strconv.Atoi(env("PORT", "3001")); err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}
	if cfg.LogJSON, err = strconv.ParseBool(env("LOG_JSON", "false")); err != nil {
		return nil, fmt.Errorf("LOG_JSON: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location returns the time zone that decides which day is "today"
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("REPORT_TIMEZONE: %w", err)
	}
	return loc, nil
}

// WhatsAppConfigured reports whether Cloud API credentials are present
func (c *Config) WhatsAppConfigured() bool {
	return c.WhatsAppPhoneNumberID != "" && c.WhatsAppAccessToken != ""
}

// Addr is the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
