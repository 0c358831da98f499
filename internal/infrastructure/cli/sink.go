package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

// Terminal implements ports.OutputSink with pterm boxes and prefix printers.
type Terminal struct {
	out         io.Writer
	progressOut io.Writer
	interactive bool
}

// NewTerminal writes to out. Progress spinners go to progressOut and are only
// drawn when interactive is true.
func NewTerminal(out, progressOut io.Writer, interactive bool) *Terminal {
	return &Terminal{out: out, progressOut: progressOut, interactive: interactive}
}

// Notice prints a single styled message.
func (t *Terminal) Notice(level ports.NoticeLevel, title, message string) {
	printer := prefixPrinter(level)
	if title != "" {
		printer = *printer.WithPrefix(pterm.Prefix{Text: strings.ToUpper(title), Style: printer.Prefix.Style})
	}
	fmt.Fprint(t.out, printer.Sprintln(message))
}

// ProposedCommand shows the command awaiting confirmation and any guardrail findings.
func (t *Terminal) ProposedCommand(command string, risk domain.RiskAssessment) {
	t.box("Proposed command", pterm.FgCyan, pterm.Bold.Sprint("Command: ")+command)
	if risk.Level == "" || risk.Level == domain.RiskSafe {
		return
	}
	lines := []string{fmt.Sprintf("%s risk (%s)", strings.ToUpper(string(risk.Level)), risk.Action)}
	for _, reason := range risk.Reasons {
		lines = append(lines, " - "+reason)
	}
	t.Notice(ports.NoticeWarning, "Guardrail", strings.Join(lines, "\n"))
}

// ExecutionResult renders stdout and stderr panels, or the failure details.
func (t *Terminal) ExecutionResult(result domain.ExecutionResult) {
	if result.Succeeded() {
		t.box("Execution result", pterm.FgGreen, result.Stdout)
		if result.Stderr != "" {
			t.box("Errors or warnings", pterm.FgYellow, result.Stderr)
		}
		return
	}

	message := "Command failed"
	if result.Err != nil {
		message += ": " + result.Err.Error()
	}
	t.box("Error", pterm.FgRed, message)
	if result.Stdout != "" {
		t.box("Output", pterm.FgYellow, result.Stdout)
	}
	if result.Stderr != "" {
		t.box("Error output", pterm.FgRed, result.Stderr)
	}
}

// Markdown renders text with glamour, falling back to the raw text.
func (t *Terminal) Markdown(text string) {
	rendered, err := renderMarkdown(text)
	if err != nil {
		rendered = text
	}
	fmt.Fprintln(t.out, rendered)
}

// Progress starts a spinner; the returned func removes it.
func (t *Terminal) Progress(message string) func() {
	if !t.interactive {
		return func() {}
	}
	spinner, err := pterm.DefaultSpinner.
		WithWriter(t.progressOut).
		WithRemoveWhenDone(true).
		Start(message)
	if err != nil {
		return func() {}
	}
	return func() { _ = spinner.Stop() }
}

// Table renders rows with a header line.
func (t *Terminal) Table(headers []string, rows [][]string) error {
	data := make([][]string, 0, len(rows)+1)
	data = append(data, headers)
	data = append(data, rows...)
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(t.out, rendered)
	return nil
}

// Println writes plain text.
func (t *Terminal) Println(text string) {
	fmt.Fprintln(t.out, text)
}

func (t *Terminal) box(title string, color pterm.Color, content string) {
	style := pterm.NewStyle(color)
	content = strings.TrimRight(content, "\n")
	if content == "" {
		content = " "
	}
	fmt.Fprintln(t.out, pterm.DefaultBox.
		WithTitle(style.Sprint(title)).
		WithTitleTopLeft().
		WithBoxStyle(style).
		Sprint(content))
}

func prefixPrinter(level ports.NoticeLevel) pterm.PrefixPrinter {
	switch level {
	case ports.NoticeSuccess:
		return pterm.Success
	case ports.NoticeWarning:
		return pterm.Warning
	case ports.NoticeError:
		return pterm.Error
	default:
		return pterm.Info
	}
}

func renderMarkdown(text string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(text)
}

var _ ports.OutputSink = (*Terminal)(nil)
