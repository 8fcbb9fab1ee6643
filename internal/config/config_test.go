package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Email.SMTPServer != "smtp.gmail.com" {
		t.Errorf("SMTPServer = %q, want smtp.gmail.com", cfg.Email.SMTPServer)
	}
	if cfg.Email.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.Email.SMTPPort)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini", cfg.LLM.Provider)
	}
	if cfg.Schedule.Reminders != "0 9 * * *" {
		t.Errorf("Reminders = %q, want daily 9am", cfg.Schedule.Reminders)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.Server.CORSOrigins)
	}
	if cfg.Email.Enabled() {
		t.Error("email should not be enabled without credentials")
	}
	if cfg.WhatsApp.Enabled() {
		t.Error("whatsapp should not be enabled without credentials")
	}
}

func TestListenAddr(t *testing.T) {
	cfg := Default()
	cfg.Server.Bind = "127.0.0.1"
	cfg.Server.Port = 9000
	if got := cfg.ListenAddr(); got != "127.0.0.1:9000" {
		t.Errorf("ListenAddr = %q, want 127.0.0.1:9000", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STAYINTOUCH_PORT", "9100")
	t.Setenv("EMAIL_USERNAME", "me@example.com")
	t.Setenv("EMAIL_TO", "me@example.com")
	t.Setenv("REMINDER_SCHEDULE", "")
	t.Setenv("STAYINTOUCH_CORS_ORIGINS", "http://localhost:3000,https://app.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Server.Port)
	}
	if !cfg.Email.Enabled() {
		t.Error("email should be enabled")
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.Server.CORSOrigins)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GEMINI_API_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.GeminiKey != "from-file" {
		t.Errorf("GeminiKey = %q, want from-file", cfg.LLM.GeminiKey)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := Config{LogLevel: tt.in}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
