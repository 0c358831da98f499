package ai

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

// scriptGuidelines is appended to the system prompt when a script is requested.
var scriptGuidelines = []string{
	"При создании скрипта следуйте этим дополнительным рекомендациям:",
	"* Создайте надежный скрипт, который обрабатывает потенциальные ошибки и предоставляет информативные сообщения об ошибках",
	"* Для {{.OS}} используйте соответствующие механизмы обработки ошибок",
	"* При работе с USB-устройствами или системными событиями используйте несколько методов для обеспечения надежных результатов",
	"* Включите комментарии, объясняющие назначение каждого основного раздела скрипта",
	"* Всегда включайте способ четкого отображения результатов пользователю",
}

// PromptTemplate renders the system prompt for a given shell.
type PromptTemplate struct {
	tmpl   *template.Template
	script *template.Template
	osName string
}

type templateData struct {
	Shell string
	OS    string
}

// NewPromptTemplate parses raw (a text/template using .Shell and .OS) for the given OS name.
func NewPromptTemplate(raw string, osName string) (*PromptTemplate, error) {
	tmpl, err := template.New("system").Parse(raw)
	if err != nil {
		return nil, err
	}
	script, err := template.New("script").Parse(strings.Join(scriptGuidelines, "\n"))
	if err != nil {
		return nil, err
	}
	return &PromptTemplate{tmpl: tmpl, script: script, osName: osName}, nil
}

// SystemPrompt implements ports.PromptRenderer.
func (p *PromptTemplate) SystemPrompt(shell string, isScript bool) (string, error) {
	data := templateData{Shell: shell, OS: p.osName}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(buf.String())
	if !isScript {
		return prompt, nil
	}

	buf.Reset()
	if err := p.script.Execute(&buf, data); err != nil {
		return "", err
	}
	return prompt + "\n\n" + buf.String(), nil
}

// EnsureQuestion rejects blank queries and appends "?" unless the query already
// ends with a question mark or a period.
func EnsureQuestion(query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", domain.ErrEmptyQuery
	}
	if strings.HasSuffix(query, "?") || strings.HasSuffix(query, ".") {
		return query, nil
	}
	return query + "?", nil
}

var _ ports.PromptRenderer = (*PromptTemplate)(nil)
