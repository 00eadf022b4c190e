package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/prestapp/prestamos/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TWILIO_ACCOUNT_SID", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.TwilioAccountSID != "" {
		t.Fatalf("expected Twilio SID default to be empty, got %q", cfg.TwilioAccountSID)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.Timezone != "America/Bogota" {
		t.Fatalf("expected default timezone America/Bogota, got %s", cfg.Timezone)
	}

	if cfg.ReminderHour != 10 {
		t.Fatalf("expected default reminder hour 10, got %d", cfg.ReminderHour)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_WHATSAPP_NUMBER", "+14155238886")
	t.Setenv("REMINDER_HOUR", "7")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.TwilioAccountSID != "AC123" || cfg.TwilioWhatsAppFrom != "+14155238886" {
		t.Fatalf("expected Twilio settings to be set, got sid=%s from=%s", cfg.TwilioAccountSID, cfg.TwilioWhatsAppFrom)
	}

	if cfg.ReminderHour != 7 {
		t.Fatalf("expected reminder hour override, got %d", cfg.ReminderHour)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
