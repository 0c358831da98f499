package domain

// Config mirrors the merged default and user config.yaml.
type Config struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	AppName     string  `yaml:"your_app_name"`
	// Safety asks for confirmation before every command.
	Safety bool `yaml:"safety"`
	// Modify enables the "modify the query" decision.
	Modify         bool              `yaml:"modify"`
	Endpoint       string            `yaml:"endpoint"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Cache          CacheSettings     `yaml:"cache"`
	Screening      ScreeningSettings `yaml:"screening"`
	Security       SecuritySettings  `yaml:"security"`

	// APIKey is resolved by the config provider and never written back as part of Config.
	APIKey string `yaml:"-"`
}

// CacheSettings controls the response cache.
type CacheSettings struct {
	MaxAgeHours int `yaml:"max_age_hours"`
}

// ScreeningSettings controls response screening.
type ScreeningSettings struct {
	RefusalPrefixes []string `yaml:"refusal_prefixes"`
}

// SecuritySettings defines guardrail behavior.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}
