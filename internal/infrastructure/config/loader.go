package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/iop/assets"
	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/pkg/filesystem"
	"github.com/doeshing/iop/internal/ports"
)

// APIKeyEnvVar names the environment (and .env) variable holding the OpenRouter key.
const APIKeyEnvVar = "OPENROUTER_API_KEY"

// FileLoader merges the embedded defaults with <config dir>/config.yaml (overridable via IOP_CONFIG)
// and resolves the OpenRouter API key.
type FileLoader struct {
	overridePath string
	envFile      string
	getenv       func(string) string

	prompter  ports.Prompter
	validator ports.KeyValidator
	sink      ports.OutputSink

	apiKey string
}

// keyFields are the credential entries of the user config file.
type keyFields struct {
	OpenRouterAPIKey string `yaml:"openrouter_api_key"`
	Encrypted        bool   `yaml:"encrypted"`
}

// NewFileLoader builds a loader. path overrides the user config location when non-empty.
// prompter, validator and sink are only needed for interactive key entry.
func NewFileLoader(path string, prompter ports.Prompter, validator ports.KeyValidator, sink ports.OutputSink) *FileLoader {
	return &FileLoader{
		overridePath: path,
		envFile:      ".env",
		getenv:       os.Getenv,
		prompter:     prompter,
		validator:    validator,
		sink:         sink,
	}
}

// WithEnvFile changes the .env location (default: .env in the working directory).
func (l *FileLoader) WithEnvFile(path string) *FileLoader {
	l.envFile = path
	return l
}

// Load implements ports.ConfigProvider. It never prompts; the key is resolved by ResolveKey.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse default config: %w", err)
	}

	data, err := os.ReadFile(l.Path())
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parse config %s: %w", l.Path(), err)
		}
	}

	if err := cfg.ValidateConsistency(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	cfg.APIKey = l.apiKey
	return cfg, nil
}

// APIKey implements ports.ConfigProvider. It is empty until ResolveKey succeeds.
func (l *FileLoader) APIKey() string {
	return l.apiKey
}

// Path returns the user config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := l.getenv("IOP_CONFIG"); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.ConfigDir(), "config.yaml")
}

// ResolveKey finds the API key: environment, then .env, then the user config file
// (decrypting it when stored encrypted), then interactive entry.
func (l *FileLoader) ResolveKey(ctx context.Context) (string, error) {
	if key := strings.TrimSpace(l.getenv(APIKeyEnvVar)); key != "" {
		l.apiKey = key
		return key, nil
	}
	if key := l.dotEnvKey(); key != "" {
		l.apiKey = key
		return key, nil
	}

	stored, err := l.readKeyFields()
	if err != nil {
		return "", err
	}
	if stored.OpenRouterAPIKey != "" {
		key := stored.OpenRouterAPIKey
		if stored.Encrypted {
			if l.prompter == nil {
				return "", domain.ErrMissingAPIKey
			}
			password, err := l.prompter.AskSecret("Password to decrypt the API key: ")
			if err != nil {
				return "", fmt.Errorf("read password: %w", err)
			}
			key, err = DecryptKey(stored.OpenRouterAPIKey, password)
			if err != nil {
				return "", err
			}
		}
		l.apiKey = key
		return key, nil
	}

	if l.prompter == nil || l.validator == nil {
		return "", domain.ErrMissingAPIKey
	}
	l.notice(ports.NoticeWarning, "Attention", "No configuration found. Please enter your OpenRouter API key.")
	return l.enterKey(ctx)
}

// KeySource reports where ResolveKey would find the key, without prompting or decrypting.
// It returns "" when no key is configured.
func (l *FileLoader) KeySource() (string, error) {
	if strings.TrimSpace(l.getenv(APIKeyEnvVar)) != "" {
		return "environment", nil
	}
	if l.dotEnvKey() != "" {
		return ".env", nil
	}
	stored, err := l.readKeyFields()
	if err != nil {
		return "", err
	}
	switch {
	case stored.OpenRouterAPIKey == "":
		return "", nil
	case stored.Encrypted:
		return "config file (encrypted)", nil
	default:
		return "config file", nil
	}
}

// RotateKey asks for a new key, validates it and stores it in the user config.
func (l *FileLoader) RotateKey(ctx context.Context) error {
	if l.prompter == nil || l.validator == nil {
		return errors.New("key rotation needs an interactive terminal")
	}
	_, err := l.enterKey(ctx)
	return err
}

func (l *FileLoader) enterKey(ctx context.Context) (string, error) {
	var key string
	for {
		answer, err := l.prompter.Ask("Enter your OpenRouter API key: ")
		if err != nil {
			return "", fmt.Errorf("read API key: %w", err)
		}
		answer = strings.TrimSpace(answer)

		stop := l.progress("Validating API key...")
		ok, err := l.validator.ValidateKey(ctx, answer)
		stop()
		if err != nil {
			l.notice(ports.NoticeError, "Error", "API key validation failed: "+err.Error())
			continue
		}
		if ok {
			key = answer
			break
		}
		l.notice(ports.NoticeWarning, "", "Invalid API key. Please try again.")
	}

	if err := l.storeKey(key); err != nil {
		return "", err
	}
	l.apiKey = key
	l.notice(ports.NoticeSuccess, "", "API key saved to "+l.Path())
	return key, nil
}

func (l *FileLoader) storeKey(key string) error {
	fields := keyFields{OpenRouterAPIKey: key}

	choice, err := l.prompter.Ask("Protect the key with a password? (y/N): ")
	if err != nil {
		return fmt.Errorf("read answer: %w", err)
	}
	if strings.EqualFold(strings.TrimSpace(choice), "y") {
		password, err := l.prompter.AskSecret("Password to encrypt the key: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		sealed, err := EncryptKey(key, password)
		if err != nil {
			return err
		}
		fields = keyFields{OpenRouterAPIKey: sealed, Encrypted: true}
	}
	return l.writeKeyFields(fields)
}

func (l *FileLoader) dotEnvKey() string {
	if l.envFile == "" {
		return ""
	}
	values, err := godotenv.Read(l.envFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(values[APIKeyEnvVar])
}

func (l *FileLoader) readKeyFields() (keyFields, error) {
	var fields keyFields
	data, err := os.ReadFile(l.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return fields, nil
	}
	if err != nil {
		return fields, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return fields, fmt.Errorf("parse config %s: %w", l.Path(), err)
	}
	return fields, nil
}

// writeKeyFields updates the credential entries and keeps every other user setting.
func (l *FileLoader) writeKeyFields(fields keyFields) error {
	path := l.Path()
	content := map[string]interface{}{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &content); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		if content == nil {
			content = map[string]interface{}{}
		}
	}
	content["openrouter_api_key"] = fields.OpenRouterAPIKey
	content["encrypted"] = fields.Encrypted

	raw, err := yaml.Marshal(content)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, raw, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(path, domain.SecureFilePermissions)
}

func (l *FileLoader) notice(level ports.NoticeLevel, title, message string) {
	if l.sink != nil {
		l.sink.Notice(level, title, message)
	}
}

func (l *FileLoader) progress(message string) func() {
	if l.sink == nil {
		return func() {}
	}
	return l.sink.Progress(message)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
