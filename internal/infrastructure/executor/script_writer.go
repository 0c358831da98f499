package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

// FileScriptWriter writes generated scripts into a directory, normally the working directory.
type FileScriptWriter struct {
	dir  string
	goos string
}

// NewFileScriptWriter writes into dir for the running platform.
func NewFileScriptWriter(dir string) *FileScriptWriter {
	return &FileScriptWriter{dir: dir, goos: runtime.GOOS}
}

// Write implements ports.ScriptWriter. name is given without extension.
func (w *FileScriptWriter) Write(name, content string) (domain.ScriptArtifact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ScriptArtifact{}, domain.ErrEmptyScriptName
	}

	windows := w.goos == "windows"
	ext := ".sh"
	if windows {
		ext = ".ps1"
	}
	path := filepath.Join(w.dir, name+ext)

	if err := os.WriteFile(path, []byte(content), domain.ScriptPermissions); err != nil {
		return domain.ScriptArtifact{}, fmt.Errorf("write script: %w", err)
	}
	if !windows {
		// WriteFile keeps the mode of an existing file and applies the umask on create.
		if err := os.Chmod(path, domain.ScriptPermissions); err != nil {
			return domain.ScriptArtifact{}, fmt.Errorf("chmod script: %w", err)
		}
	}

	return domain.ScriptArtifact{Path: path, RunCommand: runCommand(windows, path)}, nil
}

func runCommand(windows bool, path string) string {
	if windows {
		return "powershell -ExecutionPolicy Bypass -File " + path
	}
	return "bash " + path
}

var _ ports.ScriptWriter = (*FileScriptWriter)(nil)
