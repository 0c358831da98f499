package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultRefusalPrefixes are the lowercase openings that mark a model refusal.
// The bare "я" rejects any answer that starts with that word.
var DefaultRefusalPrefixes = []string{"извините", "я извиняюсь", "вопрос не ясен", "я"}

// IsSafetyEnabled reports whether every command needs confirmation.
func (c *Config) IsSafetyEnabled() bool {
	return c.Safety
}

// IsModifyEnabled reports whether the modify decision is offered.
func (c *Config) IsModifyEnabled() bool {
	return c.Modify
}

// IsSecurityEnabled checks if security guardrails are enabled
func (c *Config) IsSecurityEnabled() bool {
	return c.Security.Enabled
}

// GetTimeout returns the completion request timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultCompletionTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetCacheMaxAge returns how long a cached response stays valid.
func (c *Config) GetCacheMaxAge() time.Duration {
	if c.Cache.MaxAgeHours <= 0 {
		return DefaultCacheMaxAgeHours * time.Hour
	}
	return time.Duration(c.Cache.MaxAgeHours) * time.Hour
}

// GetEndpoint returns the chat-completions URL.
func (c *Config) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetAppName returns the value sent as X-Title.
func (c *Config) GetAppName() string {
	if c.AppName == "" {
		return DefaultAppName
	}
	return c.AppName
}

// GetRefusalPrefixes returns the lowercased refusal prefixes, falling back to the defaults.
func (c *Config) GetRefusalPrefixes() []string {
	src := c.Screening.RefusalPrefixes
	if len(src) == 0 {
		src = DefaultRefusalPrefixes
	}
	prefixes := make([]string, 0, len(src))
	for _, p := range src {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

// ValidateConsistency checks the internal consistency of the configuration
func (c *Config) ValidateConsistency() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model must be set")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be >= 0, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %g", c.Temperature)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be >= 0")
	}
	if c.Cache.MaxAgeHours < 0 {
		return fmt.Errorf("cache.max_age_hours must be >= 0")
	}
	return nil
}
