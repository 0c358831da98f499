package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/iop/internal/application/intent"
	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

const scriptQueryFormat = "Создайте скрипт для %s. Скрипт должен обрабатывать ошибки, предоставлять четкий вывод и работать надежно."

// Service orchestrates the query lifecycle end-to-end:
// complete, screen, assess, confirm and act, repeated while the user modifies the query.
type Service struct {
	Config      domain.Config
	Environment domain.Environment
	Completer   ports.Completer
	Screener    ports.Screener
	Security    ports.SecurityService
	Executor    ports.CommandExecutor
	Scripts     ports.ScriptWriter
	Clipboard   ports.Clipboard
	Prompter    ports.Prompter
	Sink        ports.OutputSink
	History     ports.HistoryRepository
	Logger      ports.Logger
}

// Run processes a single natural-language query.
// Screening rejections are returned after the sink has displayed them.
func (s *Service) Run(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error) {
	if s.Completer == nil || s.Screener == nil || s.Security == nil || s.Executor == nil ||
		s.Scripts == nil || s.Prompter == nil || s.Sink == nil || s.Logger == nil {
		return domain.QueryResponse{}, errors.New("query.Service dependencies not satisfied")
	}

	shell := req.Shell
	if shell == "" {
		shell = s.Environment.Shell
	}

	var resp domain.QueryResponse
	query := req.Prompt
	for cycle := 1; ; cycle++ {
		if cycle > domain.MaxConfirmationCycles {
			return resp, fmt.Errorf("%w (%d)", domain.ErrTooManyModifications, domain.MaxConfirmationCycles)
		}
		resp.Cycles = cycle

		command, err := s.complete(ctx, query, shell, false)
		if err != nil {
			return resp, err
		}
		if err := s.Screener.Screen(command); err != nil {
			return resp, err
		}

		risk, err := s.Security.Evaluate(command)
		if err != nil {
			return resp, fmt.Errorf("security evaluate: %w", err)
		}
		resp.Pending = domain.PendingCommand{Query: query, Command: command}
		resp.RiskAssessment = risk
		s.Sink.ProposedCommand(command, risk)

		decision, err := s.decide(req, risk)
		if err != nil {
			return resp, err
		}
		resp.Decision = decision
		s.Logger.Debug("decision", map[string]interface{}{
			"cycle":    cycle,
			"decision": string(decision),
			"risk":     string(risk.Level),
		})

		switch decision {
		case domain.DecisionRun:
			if risk.Blocks() {
				s.Sink.Notice(ports.NoticeError, "Blocked", "Command blocked by guardrail: "+strings.Join(risk.Reasons, "; "))
				resp.Decision = domain.DecisionAbort
				return resp, nil
			}
			s.run(ctx, &resp)
			return resp, nil
		case domain.DecisionModify:
			modified, err := s.Prompter.Ask("Modify the query: ")
			if err != nil {
				return resp, fmt.Errorf("read modified query: %w", err)
			}
			query = modified
			continue
		case domain.DecisionCopy:
			s.copy(&resp)
			return resp, nil
		case domain.DecisionScript:
			return resp, s.script(ctx, &resp, shell)
		default:
			s.Sink.Notice(ports.NoticeWarning, "", "No action taken.")
			return resp, nil
		}
	}
}

// decide prompts when safety is on, when asked to, or when the guardrail demands it.
// Otherwise the command runs without reading input.
func (s *Service) decide(req domain.QueryRequest, risk domain.RiskAssessment) (domain.Decision, error) {
	if !s.Config.IsSafetyEnabled() && !req.Ask && !risk.RequiresConfirmation() && !risk.Blocks() {
		return domain.DecisionRun, nil
	}
	answer, err := s.Prompter.Ask(intent.PromptText(s.Config.IsModifyEnabled()))
	if err != nil {
		return domain.DecisionAbort, fmt.Errorf("read decision: %w", err)
	}
	return intent.ParseDecision(answer, s.Config.IsModifyEnabled()), nil
}

func (s *Service) complete(ctx context.Context, query, shell string, isScript bool) (string, error) {
	stop := s.Sink.Progress("Sending request...")
	defer stop()
	return s.Completer.Complete(ctx, query, shell, isScript)
}

func (s *Service) run(ctx context.Context, resp *domain.QueryResponse) {
	command := resp.Pending.Command

	stop := s.Sink.Progress("Running command...")
	result, err := s.Executor.Execute(ctx, command)
	stop()
	if err != nil {
		s.Logger.Error("command did not start", err, map[string]interface{}{"command": command})
	}
	resp.ExecutionResult = &result
	s.Sink.ExecutionResult(result)

	if s.History == nil {
		return
	}
	record := domain.HistoryRecord{
		Timestamp:       time.Now(),
		Query:           resp.Pending.Query,
		Command:         command,
		Model:           s.Config.Model,
		Executed:        result.Ran,
		Success:         result.Succeeded(),
		ExitCode:        result.ExitCode,
		RiskLevel:       resp.RiskAssessment.Level,
		ExecutionTimeMS: result.DurationMS,
	}
	if err := s.History.Save(ctx, record); err != nil {
		s.Logger.Warn("failed to record history", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) copy(resp *domain.QueryResponse) {
	if s.Clipboard == nil || !s.Clipboard.Enabled() {
		s.Sink.Notice(ports.NoticeError, "Clipboard", "Clipboard is not available on this system.")
		return
	}
	if err := s.Clipboard.Copy(resp.Pending.Command); err != nil {
		s.Sink.Notice(ports.NoticeError, "Clipboard", "Could not copy to the clipboard: "+err.Error())
		return
	}
	resp.Copied = true
	s.Sink.Notice(ports.NoticeSuccess, "", "Command copied to clipboard.")
}

func (s *Service) script(ctx context.Context, resp *domain.QueryResponse, shell string) error {
	content, err := s.complete(ctx, fmt.Sprintf(scriptQueryFormat, resp.Pending.Query), shell, true)
	if err != nil {
		return err
	}

	name, err := s.Prompter.Ask("Script name (without extension): ")
	if err != nil {
		return fmt.Errorf("read script name: %w", err)
	}
	artifact, err := s.Scripts.Write(name, ExtractScript(content))
	if err != nil {
		return err
	}
	resp.Script = &artifact

	s.Sink.Notice(ports.NoticeSuccess, "Success", "Script created: "+artifact.Path)
	s.Sink.Notice(ports.NoticeInfo, "", "To run the script use: "+artifact.RunCommand)
	return nil
}

// ExtractScript returns the body of the first fenced code block in content,
// or content unchanged when it has no complete fence.
func ExtractScript(content string) string {
	start := strings.Index(content, "```")
	if start < 0 {
		return content
	}
	rest := content[start+3:]
	// skip the info string ("bash", "powershell", ...)
	newline := strings.IndexByte(rest, '\n')
	if newline < 0 {
		return content
	}
	body := rest[newline+1:]
	end := strings.Index(body, "```")
	if end < 0 {
		return content
	}
	return strings.TrimRight(body[:end], " \t\r\n") + "\n"
}

// Verify Service implements the use case interface consumed by the CLI.
var _ Runner = (*Service)(nil)

// Runner is the CLI-facing entry point of the query use case.
type Runner interface {
	Run(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error)
}
