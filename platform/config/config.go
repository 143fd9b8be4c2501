// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// AdminConfig provides credentials for the admin surface.
type AdminConfig interface {
	GetAdminBasicUser() string
	GetAdminBasicPassHash() string
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailProvider() string
	GetBrevoAPIKey() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUser() string
	GetSMTPPass() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// WhatsAppConfig provides settings for the WhatsApp Cloud API client.
type WhatsAppConfig interface {
	GetWhatsAppToken() string
	GetWhatsAppSenderID() string
}

// NotificationConfig provides settings for owner notifications.
type NotificationConfig interface {
	GetNotifyChannels() []string
	GetAdminEmail() string
	GetAdminWhatsApp() string
	GetAdminPanelURL() string
}

// CompletionConfig provides settings for the text-completion provider.
type CompletionConfig interface {
	GetCompletionProvider() string
	GetOpenAIAPIKey() string
	GetOpenAIBaseURL() string
	GetOpenAIModel() string
	GetGeminiAPIKey() string
	GetGeminiModel() string
}

// RateLimitConfig provides settings for the chat rate limiter.
type RateLimitConfig interface {
	GetRateLimitWindow() time.Duration
	GetRateLimitMax() int
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
}

// RetentionConfig provides settings for conversation retention.
type RetentionConfig interface {
	GetRetentionDays() int
}

// IdentityConfig provides settings for client IP hashing.
type IdentityConfig interface {
	GetIPHashSalt() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	CORSAllowAll       bool
	CORSOrigins        []string
	AdminBasicUser     string
	AdminBasicPassHash string
	AdminEmail         string
	AdminWhatsApp      string
	AdminPanelURL      string
	NotifyChannels     []string
	EmailProvider      string
	BrevoAPIKey        string
	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPass           string
	EmailFromName      string
	EmailFromAddress   string
	WhatsAppToken      string
	WhatsAppSenderID   string
	CompletionProvider string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIModel        string
	GeminiAPIKey       string
	GeminiModel        string
	RedisURL           string
	AsynqQueueName     string
	RateLimitWindow    time.Duration
	RateLimitMax       int
	RetentionDays      int
	IPHashSalt         string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// AdminConfig implementation
func (c *Config) GetAdminBasicUser() string     { return c.AdminBasicUser }
func (c *Config) GetAdminBasicPassHash() string { return c.AdminBasicPassHash }

// EmailConfig implementation
func (c *Config) GetEmailProvider() string    { return c.EmailProvider }
func (c *Config) GetBrevoAPIKey() string      { return c.BrevoAPIKey }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUser() string         { return c.SMTPUser }
func (c *Config) GetSMTPPass() string         { return c.SMTPPass }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppToken() string    { return c.WhatsAppToken }
func (c *Config) GetWhatsAppSenderID() string { return c.WhatsAppSenderID }

// NotificationConfig implementation
func (c *Config) GetNotifyChannels() []string { return c.NotifyChannels }
func (c *Config) GetAdminEmail() string       { return c.AdminEmail }
func (c *Config) GetAdminWhatsApp() string    { return c.AdminWhatsApp }
func (c *Config) GetAdminPanelURL() string    { return c.AdminPanelURL }

// CompletionConfig implementation
func (c *Config) GetCompletionProvider() string { return c.CompletionProvider }
func (c *Config) GetOpenAIAPIKey() string       { return c.OpenAIAPIKey }
func (c *Config) GetOpenAIBaseURL() string      { return c.OpenAIBaseURL }
func (c *Config) GetOpenAIModel() string        { return c.OpenAIModel }
func (c *Config) GetGeminiAPIKey() string       { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string        { return c.GeminiModel }

// RateLimitConfig implementation
func (c *Config) GetRateLimitWindow() time.Duration { return c.RateLimitWindow }
func (c *Config) GetRateLimitMax() int              { return c.RateLimitMax }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }

// RetentionConfig implementation
func (c *Config) GetRetentionDays() int { return c.RetentionDays }

// IdentityConfig implementation
func (c *Config) GetIPHashSalt() string { return c.IPHashSalt }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4321"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		AdminBasicUser:     getEnv("ADMIN_BASIC_USER", ""),
		AdminBasicPassHash: getEnv("ADMIN_BASIC_PASS_HASH", ""),
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),
		AdminWhatsApp:      getEnv("ADMIN_WHATSAPP", ""),
		AdminPanelURL:      getEnv("ADMIN_PANEL_URL", ""),
		NotifyChannels:     splitCSV(getEnv("NOTIFY_CHANNELS", "whatsapp,email")),
		EmailProvider:      strings.ToLower(getEnv("EMAIL_PROVIDER", "smtp")),
		BrevoAPIKey:        getEnv("BREVO_API_KEY", ""),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "NovaEstudioWeb"),
		EmailFromAddress:   getEnv("EMAIL_FROM_ADDRESS", ""),
		WhatsAppToken:      getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppSenderID:   getEnv("WHATSAPP_SENDER_ID", ""),
		CompletionProvider: strings.ToLower(getEnv("COMPLETION_PROVIDER", "openai")),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		RedisURL:           getEnv("REDIS_URL", ""),
		AsynqQueueName:     getEnv("ASYNQ_QUEUE", "default"),
		RateLimitWindow:    mustDuration(getEnv("RATE_LIMIT_WINDOW", "10m")),
		RateLimitMax:       mustInt(getEnv("RATE_LIMIT_MAX", "20")),
		RetentionDays:      mustInt(getEnv("RETENTION_DAYS", "90")),
		IPHashSalt:         getEnv("IP_HASH_SALT", "nova"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CompletionProvider != "openai" && cfg.CompletionProvider != "gemini" && cfg.CompletionProvider != "none" {
		return nil, fmt.Errorf("COMPLETION_PROVIDER must be openai, gemini or none")
	}
	if cfg.RateLimitWindow <= 0 || cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW and RATE_LIMIT_MAX must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
