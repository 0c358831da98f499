package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// ScriptPermissions marks generated scripts executable (rwxr-xr-x)
	ScriptPermissions = 0o755
)

// Defaults applied when the config leaves a value unset.
const (
	DefaultEndpoint          = "https://openrouter.ai/api/v1/chat/completions"
	DefaultAuthKeyEndpoint   = "https://openrouter.ai/api/v1/auth/key"
	DefaultAppName           = "iop"
	DefaultCompletionTimeout = 30 * time.Second
	DefaultCacheMaxAgeHours  = 24
	DefaultMaxTokens         = 500
)

// MaxConfirmationCycles bounds how many times a query can be modified in one run.
const MaxConfirmationCycles = 10

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
