package ai

import (
	"errors"
	"strings"
	"testing"

	"github.com/doeshing/iop/assets"
	"github.com/doeshing/iop/internal/domain"
)

func TestSystemPromptSubstitutesShellAndOS(t *testing.T) {
	tmpl, err := NewPromptTemplate(assets.SystemPromptTemplate, "Linux/Ubuntu 24.04 LTS")
	if err != nil {
		t.Fatalf("NewPromptTemplate error: %v", err)
	}

	prompt, err := tmpl.SystemPrompt("bash", false)
	if err != nil {
		t.Fatalf("SystemPrompt error: %v", err)
	}
	if !strings.Contains(prompt, "bash") || !strings.Contains(prompt, "Linux/Ubuntu 24.04 LTS") {
		t.Fatalf("placeholders not rendered: %s", prompt)
	}
	if strings.Contains(prompt, "{{") {
		t.Fatalf("template markers left in prompt: %s", prompt)
	}
	if strings.Contains(prompt, "рекомендациям") {
		t.Fatal("script guidelines must not appear in command prompts")
	}
}

func TestSystemPromptAddsScriptGuidelines(t *testing.T) {
	tmpl, err := NewPromptTemplate("Shell {{.Shell}} on {{.OS}}", "Darwin/macOS")
	if err != nil {
		t.Fatalf("NewPromptTemplate error: %v", err)
	}
	prompt, err := tmpl.SystemPrompt("bash", true)
	if err != nil {
		t.Fatalf("SystemPrompt error: %v", err)
	}
	if !strings.HasPrefix(prompt, "Shell bash on Darwin/macOS\n\n") {
		t.Fatalf("unexpected prompt head: %q", prompt)
	}
	if !strings.Contains(prompt, "* Для Darwin/macOS используйте") {
		t.Fatalf("OS not substituted in guidelines: %s", prompt)
	}
}

func TestEnsureQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Привет", "Привет?"},
		{"Привет?", "Привет?"},
		{"Привет.", "Привет."},
		{"list files", "list files?"},
	}
	for _, tt := range tests {
		got, err := EnsureQuestion(tt.in)
		if err != nil {
			t.Fatalf("EnsureQuestion(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("EnsureQuestion(%q)=%q want %q", tt.in, got, tt.want)
		}
	}

	for _, blank := range []string{"", "   ", "\n\t"} {
		if _, err := EnsureQuestion(blank); !errors.Is(err, domain.ErrEmptyQuery) {
			t.Fatalf("EnsureQuestion(%q) err=%v, want ErrEmptyQuery", blank, err)
		}
	}
}
