package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

type recordingSink struct {
	notices  []string
	markdown []string
}

func (r *recordingSink) Notice(_ ports.NoticeLevel, _ string, message string) {
	r.notices = append(r.notices, message)
}
func (r *recordingSink) ProposedCommand(string, domain.RiskAssessment) {}
func (r *recordingSink) ExecutionResult(domain.ExecutionResult)       {}
func (r *recordingSink) Markdown(text string)                          { r.markdown = append(r.markdown, text) }
func (r *recordingSink) Progress(string) func()                        { return func() {} }

func TestScreenRefusals(t *testing.T) {
	tests := []struct {
		name     string
		response string
		rejected bool
	}{
		{"apology", "Извините, не могу помочь", true},
		{"lowercase apology", "извините, не могу", true},
		{"long apology", "Я извиняюсь, но это невозможно", true},
		{"unclear", "Вопрос не ясен", true},
		{"starts with я", "Я думаю, что нужно ls", true},
		{"command", "ls -la", false},
		{"russian imperative", "Запустите скрипт", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			err := NewScreener(domain.Config{}, sink).Screen(tt.response)
			if tt.rejected {
				assert.ErrorIs(t, err, domain.ErrRefusal)
				assert.Len(t, sink.notices, 1)
				assert.Contains(t, sink.notices[0], tt.response)
				return
			}
			assert.NoError(t, err)
			assert.Empty(t, sink.notices)
		})
	}
}

func TestScreenMarkdown(t *testing.T) {
	sink := &recordingSink{}
	screener := NewScreener(domain.Config{}, sink)

	err := screener.Screen("```bash\nls -la\n```")
	assert.ErrorIs(t, err, domain.ErrMarkdownResponse)
	assert.Equal(t, []string{"```bash\nls -la\n```"}, sink.markdown)

	assert.ErrorIs(t, screener.Screen("``````"), domain.ErrMarkdownResponse)
	assert.NoError(t, screener.Screen("echo ```"))
}

func TestScreenRefusalBeforeMarkdown(t *testing.T) {
	sink := &recordingSink{}
	err := NewScreener(domain.Config{}, sink).Screen("Извините\n```\nls\n```")
	assert.ErrorIs(t, err, domain.ErrRefusal)
	assert.Empty(t, sink.markdown)
}

func TestScreenConfiguredPrefixes(t *testing.T) {
	cfg := domain.Config{Screening: domain.ScreeningSettings{RefusalPrefixes: []string{"Sorry"}}}
	screener := NewScreener(cfg, nil)

	assert.ErrorIs(t, screener.Screen("sorry, I can't"), domain.ErrRefusal)
	assert.NoError(t, screener.Screen("Я думаю ls"))
}

func TestScreenIsScreeningRejection(t *testing.T) {
	err := NewScreener(domain.Config{}, nil).Screen("Извините")
	assert.True(t, domain.IsScreeningRejection(err))
}
