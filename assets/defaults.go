package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultGuardrailYAML contains the embedded default guardrail rules.
//
//go:embed defaults/guardrail.yaml
var DefaultGuardrailYAML []byte

// SystemPromptTemplate is the system prompt sent with every completion.
// It is a text/template rendered with the shell and OS names.
//
//go:embed defaults/prompt.txt
var SystemPromptTemplate string
