package executor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/iop/internal/domain"
)

func requireBash(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("bash executor tests run on POSIX only")
	}
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

func TestExecuteCapturesStdout(t *testing.T) {
	requireBash(t)

	result, err := NewLocalExecutor().Execute(context.Background(), "echo hello")
	require.NoError(t, err)
	assert.True(t, result.Ran)
	assert.True(t, result.Succeeded())
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Empty(t, result.Stderr)
	assert.Equal(t, 0, result.ExitCode)
}

func TestExecuteReportsNonZeroExit(t *testing.T) {
	requireBash(t)

	result, err := NewLocalExecutor().Execute(context.Background(), "echo out; echo oops >&2; exit 3")
	require.NoError(t, err)
	assert.True(t, result.Ran)
	assert.False(t, result.Succeeded())
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "out\n", result.Stdout)
	assert.Equal(t, "oops\n", result.Stderr)
	assert.Error(t, result.Err)
}

func TestShellCommandPerPlatform(t *testing.T) {
	name, args := shellCommand("linux", "ls")
	assert.Equal(t, "bash", name)
	assert.Equal(t, []string{"-c", "ls"}, args)

	name, args = shellCommand("windows", "Get-ChildItem")
	assert.Equal(t, "powershell", name)
	assert.Equal(t, []string{"-Command", "Get-ChildItem"}, args)
}

func TestScriptWriterPOSIX(t *testing.T) {
	dir := t.TempDir()
	writer := &FileScriptWriter{dir: dir, goos: "linux"}

	artifact, err := writer.Write("backup", "#!/bin/bash\necho hi\n")
	require.NoError(t, err)

	want := filepath.Join(dir, "backup.sh")
	assert.Equal(t, want, artifact.Path)
	assert.Equal(t, "bash "+want, artifact.RunCommand)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/bash\necho hi\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(want)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(domain.ScriptPermissions), info.Mode().Perm())
	}
}

func TestScriptWriterWindowsNaming(t *testing.T) {
	dir := t.TempDir()
	writer := &FileScriptWriter{dir: dir, goos: "windows"}

	artifact, err := writer.Write("cleanup", "Write-Output 'hi'")
	require.NoError(t, err)

	want := filepath.Join(dir, "cleanup.ps1")
	assert.Equal(t, want, artifact.Path)
	assert.Equal(t, "powershell -ExecutionPolicy Bypass -File "+want, artifact.RunCommand)
}

func TestScriptWriterRejectsEmptyName(t *testing.T) {
	writer := NewFileScriptWriter(t.TempDir())
	_, err := writer.Write("   ", "echo")
	assert.ErrorIs(t, err, domain.ErrEmptyScriptName)
}
