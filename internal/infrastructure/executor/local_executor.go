package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"time"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

// LocalExecutor runs commands on the host shell.
type LocalExecutor struct {
	goos string
}

// NewLocalExecutor builds an executor for the running platform:
// bash on POSIX systems, powershell on Windows.
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{goos: runtime.GOOS}
}

// Execute implements ports.CommandExecutor.
// A non-zero exit is not an error: it is reported through ExitCode and Err.
// The returned error is set only when the shell could not be started.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	name, args := shellCommand(e.goos, command)
	c := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	duration := time.Since(start).Milliseconds()

	result := domain.ExecutionResult{
		Ran:        true,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: duration,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		result.Err = err
		return result, nil
	}
	if err != nil {
		result.Ran = false
		result.ExitCode = -1
		result.Err = err
		return result, err
	}
	return result, nil
}

func shellCommand(goos, command string) (string, []string) {
	if goos == "windows" {
		return "powershell", []string{"-Command", command}
	}
	return "bash", []string{"-c", command}
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
