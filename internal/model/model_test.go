package model

import (
	"errors"
	"testing"
	"time"
)

func TestBandFor(t *testing.T) {
	tests := []struct {
		score int
		want  RiskBand
	}{
		{100, RiskLow},
		{70, RiskLow},
		{69, RiskMedium},
		{50, RiskMedium},
		{49, RiskHigh},
		{0, RiskHigh},
	}

	for _, tt := range tests {
		if got := BandFor(tt.score); got != tt.want {
			t.Errorf("BandFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}

	if got := (AnalysisResult{Score: 45}).Band(); got != RiskHigh {
		t.Errorf("Band() = %s, want %s", got, RiskHigh)
	}
}

func TestParsePlatform(t *testing.T) {
	tests := map[string]Platform{
		"Facebook":  PlatformFacebook,
		"tiktok":    PlatformTikTok,
		" FINN.NO ": PlatformFinn,
		"Myspace":   PlatformUnknown,
		"":          PlatformUnknown,
	}
	for in, want := range tests {
		if got := ParsePlatform(in); got != want {
			t.Errorf("ParsePlatform(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestPlatform_StringAndKnown(t *testing.T) {
	if Platform("").String() != "Unknown" {
		t.Error("empty platform should print as Unknown")
	}
	if PlatformUnknown.IsKnown() {
		t.Error("Unknown must not be a known platform")
	}
	if !PlatformWhatsApp.IsKnown() {
		t.Error("WhatsApp should be known")
	}
}

func TestNewPageContext_DefaultsPlatform(t *testing.T) {
	page := NewPageContext("https://example.com/privacy", "Privacy", "text", "")
	if page.Platform() != PlatformUnknown {
		t.Errorf("Platform() = %s, want Unknown", page.Platform())
	}
	if page.URL() != "https://example.com/privacy" || page.Title() != "Privacy" || page.ExtractedText() != "text" {
		t.Errorf("unexpected page context: %+v", page)
	}
}

func TestDefaultSettings(t *testing.T) {
	m := DefaultSettings().AsMap()
	for _, key := range []string{KeyAutoAnalyze, KeyShowNotifications, KeyExtensionEnabled} {
		if v, ok := m[key].(bool); !ok || !v {
			t.Errorf("default %s = %v, want true", key, m[key])
		}
	}
}

func TestWidgetState_String(t *testing.T) {
	if StateChat.String() != "chat" || StateIdle.String() != "idle" {
		t.Error("unexpected state names")
	}
	if WidgetState(42).String() != "unknown" {
		t.Error("out-of-range state should print unknown")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"relative backend", func(c *Config) { c.Backend.BaseURL = "/api" }, ErrInvalidBackendURL},
		{"ftp backend", func(c *Config) { c.Backend.BaseURL = "ftp://host" }, ErrInvalidBackendURL},
		{"zero backend timeout", func(c *Config) { c.Backend.Timeout = 0 }, ErrInvalidTimeout},
		{"negative message timeout", func(c *Config) { c.Messaging.Timeout = -time.Second }, ErrInvalidTimeout},
		{"zero popup limit", func(c *Config) { c.Widget.PopupLimit = 0 }, ErrInvalidTextLimit},
		{"zero workers", func(c *Config) { c.Concurrency.Workers = 0 }, ErrInvalidWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
