package domain_test

import (
	"testing"
	"time"

	"github.com/doeshing/iop/internal/domain"
)

// TestConfig_GetRefusalPrefixes tests normalization and fallback of refusal prefixes
func TestConfig_GetRefusalPrefixes(t *testing.T) {
	tests := []struct {
		name   string
		config domain.Config
		want   []string
	}{
		{
			name:   "falls back to defaults",
			config: domain.Config{},
			want:   domain.DefaultRefusalPrefixes,
		},
		{
			name: "lowercases and trims configured prefixes",
			config: domain.Config{
				Screening: domain.ScreeningSettings{RefusalPrefixes: []string{"  Sorry ", "", "I CANNOT"}},
			},
			want: []string{"sorry", "i cannot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config.GetRefusalPrefixes()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("prefix %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestConfig_Defaults tests the fallbacks for unset values
func TestConfig_Defaults(t *testing.T) {
	var cfg domain.Config

	if got := cfg.GetTimeout(); got != 30*time.Second {
		t.Errorf("timeout: got %s, want 30s", got)
	}
	if got := cfg.GetCacheMaxAge(); got != 24*time.Hour {
		t.Errorf("cache max age: got %s, want 24h", got)
	}
	if got := cfg.GetEndpoint(); got != domain.DefaultEndpoint {
		t.Errorf("endpoint: got %s", got)
	}
	if got := cfg.GetAppName(); got != "iop" {
		t.Errorf("app name: got %s", got)
	}

	cfg.TimeoutSeconds = 5
	cfg.Cache.MaxAgeHours = 2
	if got := cfg.GetTimeout(); got != 5*time.Second {
		t.Errorf("timeout: got %s, want 5s", got)
	}
	if got := cfg.GetCacheMaxAge(); got != 2*time.Hour {
		t.Errorf("cache max age: got %s, want 2h", got)
	}
}

// TestConfig_ValidateConsistency tests configuration consistency validation
func TestConfig_ValidateConsistency(t *testing.T) {
	tests := []struct {
		name      string
		config    domain.Config
		wantError bool
	}{
		{
			name:      "valid configuration",
			config:    domain.Config{Model: "openai/gpt-4o-mini", Temperature: 0.2, MaxTokens: 500},
			wantError: false,
		},
		{
			name:      "invalid: missing model",
			config:    domain.Config{Temperature: 0.2},
			wantError: true,
		},
		{
			name:      "invalid: temperature out of range",
			config:    domain.Config{Model: "m", Temperature: 3},
			wantError: true,
		},
		{
			name:      "invalid: negative cache age",
			config:    domain.Config{Model: "m", Cache: domain.CacheSettings{MaxAgeHours: -1}},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateConsistency()
			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCacheEntryExpired(t *testing.T) {
	now := time.Now()
	entry := domain.CacheEntry{Timestamp: now.Add(-2 * time.Hour)}

	if entry.Expired(now, 3*time.Hour) {
		t.Error("entry younger than max age reported as expired")
	}
	if !entry.Expired(now, time.Hour) {
		t.Error("entry older than max age not reported as expired")
	}
}

func TestRiskAssessmentActions(t *testing.T) {
	if !(domain.RiskAssessment{Action: domain.ActionBlock}).Blocks() {
		t.Error("block action should block")
	}
	if !(domain.RiskAssessment{Action: domain.ActionExplicitConfirm}).RequiresConfirmation() {
		t.Error("explicit_confirm should require confirmation")
	}
	if (domain.RiskAssessment{Action: domain.ActionAllow}).RequiresConfirmation() {
		t.Error("allow should not require confirmation")
	}
}
