// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The confirmation pipeline only talks to the model API,
// the cache, the shell, the clipboard and the terminal through these interfaces, so
// every adapter can be replaced by a stub in tests.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ChatTransport, ConfigProvider)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"io"
	"time"

	"github.com/doeshing/iop/internal/domain"
)

// ConfigProvider loads the configuration once per invocation and owns the credential.
// Implementations read the embedded defaults, the user config.yaml and .env.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
	APIKey() string
}

// ResponseCache maps (model, query) to a previously received completion.
type ResponseCache interface {
	Get(ctx context.Context, model, query string, maxAge time.Duration) (string, bool, error)
	Put(ctx context.Context, model, query, response string) error
}

// CacheRepository adds the maintenance operations exposed by the cache subcommands.
type CacheRepository interface {
	ResponseCache
	Entries(ctx context.Context) ([]domain.CacheEntry, error)
	Prune(ctx context.Context, maxAge time.Duration) (int, error)
	Clear(ctx context.Context) error
	Path() string
}

// ChatMessage follows the role/content pair required by chat APIs.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest contains everything one chat-completion call needs.
type ChatRequest struct {
	Endpoint    string
	APIKey      string
	AppName     string
	Model       string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ChatTransport performs a single chat-completion exchange and returns the assistant text.
type ChatTransport interface {
	Send(ctx context.Context, req ChatRequest) (string, error)
}

// KeyValidator checks an API key against the provider.
type KeyValidator interface {
	ValidateKey(ctx context.Context, apiKey string) (bool, error)
}

// PromptRenderer produces the system prompt for a shell.
type PromptRenderer interface {
	SystemPrompt(shell string, isScript bool) (string, error)
}

// Completer turns a query into model text. isScript requests a hardened script and skips the cache.
type Completer interface {
	Complete(ctx context.Context, query, shell string, isScript bool) (string, error)
}

// Screener rejects model output that must not reach the confirmation step.
type Screener interface {
	Screen(response string) error
}

// SecurityService evaluates commands against security rules to prevent dangerous operations.
type SecurityService interface {
	Evaluate(command string) (domain.RiskAssessment, error)
}

// CommandExecutor runs shell commands in the platform shell.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// ScriptWriter persists a generated script in the working directory.
type ScriptWriter interface {
	Write(name, content string) (domain.ScriptArtifact, error)
}

// Clipboard provides cross-platform clipboard integration for copying commands.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// Prompter reads single lines of user input.
type Prompter interface {
	Ask(prompt string) (string, error)
	AskSecret(prompt string) (string, error)
}

// NoticeLevel selects how a notice is styled.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// OutputSink is the user-facing terminal. It replaces any global console.
type OutputSink interface {
	Notice(level NoticeLevel, title, message string)
	ProposedCommand(command string, risk domain.RiskAssessment)
	ExecutionResult(result domain.ExecutionResult)
	Markdown(text string)
	// Progress shows an activity indicator until the returned stop func is called.
	Progress(message string) (stop func())
}

// EnvironmentCollector detects the shell and OS the command targets.
type EnvironmentCollector interface {
	Collect(context.Context) (domain.Environment, error)
}

// HistoryRepository stores executed commands.
type HistoryRepository interface {
	Save(ctx context.Context, record domain.HistoryRecord) error
	Records(ctx context.Context, limit int, search string) ([]domain.HistoryRecord, error)
	Clear(ctx context.Context) error
	ExportJSON(ctx context.Context, w io.Writer) error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
