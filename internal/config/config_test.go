package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SMTP_USER", "me@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.SMTPPort != "587" {
		t.Errorf("port defaults = %q/%q", cfg.Port, cfg.SMTPPort)
	}
	if cfg.SettleDelay != 50*time.Millisecond {
		t.Errorf("SettleDelay = %v, want 50ms", cfg.SettleDelay)
	}
	if cfg.FromEmail != "me@example.com" {
		t.Errorf("FromEmail = %q, want SMTP_USER fallback", cfg.FromEmail)
	}
	if !cfg.DefaultAdmin() {
		t.Error("DefaultAdmin() = false with default credentials")
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("SETTLE_DELAY", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
