package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all stayintouch configuration. It is built once at process
// entry and handed to the collaborators that need it.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Email    EmailConfig
	WhatsApp WhatsAppConfig
	LLM      LLMConfig
	Schedule ScheduleConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type ServerConfig struct {
	Bind        string   `env:"STAYINTOUCH_BIND" envDefault:"0.0.0.0"`
	Port        int      `env:"STAYINTOUCH_PORT" envDefault:"8000"`
	CORSOrigins []string `env:"STAYINTOUCH_CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

type DatabaseConfig struct {
	Path string `env:"STAYINTOUCH_DB"` // empty: store.DefaultDBPath()
}

type EmailConfig struct {
	SMTPServer string `env:"EMAIL_SMTP_SERVER" envDefault:"smtp.gmail.com"`
	SMTPPort   int    `env:"EMAIL_SMTP_PORT" envDefault:"587"`
	Username   string `env:"EMAIL_USERNAME"`
	Password   string `env:"EMAIL_PASSWORD"`
	To         string `env:"EMAIL_TO"`
}

// Enabled reports whether enough is set to attempt an SMTP send.
func (c EmailConfig) Enabled() bool {
	return c.SMTPServer != "" && c.Username != "" && c.To != ""
}

type WhatsAppConfig struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	From       string `env:"TWILIO_WHATSAPP_NUMBER"`
	To         string `env:"WHATSAPP_TO"`
}

// Enabled reports whether the Twilio WhatsApp channel is fully configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != "" && c.To != ""
}

type LLMConfig struct {
	Provider     string `env:"LLM_PROVIDER" envDefault:"gemini"` // "gemini", "anthropic", "ollama"
	Model        string `env:"LLM_MODEL"`
	GeminiKey    string `env:"GEMINI_API_KEY"`
	AnthropicKey string `env:"ANTHROPIC_API_KEY"`
	OllamaURL    string `env:"OLLAMA_URL"`
}

type ScheduleConfig struct {
	Reminders string `env:"REMINDER_SCHEDULE" envDefault:"0 9 * * *"` // cron spec, empty disables
}

// Default returns a Config holding only the declared defaults, ignoring the
// process environment.
func Default() Config {
	var cfg Config
	// Defaults are static tags; parsing an empty environment cannot fail.
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// Load reads the optional .env files (".env" when none are given) and then
// parses the process environment. Missing .env files are not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
