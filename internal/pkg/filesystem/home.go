package filesystem

import (
	"os"
	"path/filepath"
)

// AppDirName is the directory holding iop's config, cache and history.
const AppDirName = "iop"

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// ConfigDir returns the per-user application directory
// (~/.config/iop on Linux, ~/Library/Application Support/iop on macOS, %AppData%\iop on Windows).
// IOP_HOME overrides it.
func ConfigDir() string {
	if custom := os.Getenv("IOP_HOME"); custom != "" {
		return ExpandPath(custom)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppDirName)
	}
	return filepath.Join(UserHomeDir(), ".config", AppDirName)
}

// ExpandPath resolves a leading "~/" against the home directory.
func ExpandPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}
