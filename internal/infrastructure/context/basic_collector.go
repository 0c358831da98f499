package contextcollector

import (
	"bufio"
	"context"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

const osReleasePath = "/etc/os-release"

// BasicCollector implements EnvironmentCollector from the runtime platform and /etc/os-release.
type BasicCollector struct {
	goos      string
	osRelease func() (io.ReadCloser, error)
	getwd     func() (string, error)
}

func NewBasicCollector() *BasicCollector {
	return &BasicCollector{
		goos:      runtime.GOOS,
		osRelease: func() (io.ReadCloser, error) { return os.Open(osReleasePath) },
		getwd:     os.Getwd,
	}
}

// Collect gathers the environment data used by the system prompt and the executor.
func (c *BasicCollector) Collect(ctx context.Context) (domain.Environment, error) {
	wd, _ := c.getwd()
	windows := c.goos == "windows"
	return domain.Environment{
		Shell:      ShellFor(c.goos),
		OS:         c.friendlyOSName(),
		WorkingDir: wd,
		Windows:    windows,
	}, nil
}

// ShellFor returns the shell commands are generated for on goos.
func ShellFor(goos string) string {
	if goos == "windows" {
		return "powershell"
	}
	return "bash"
}

func (c *BasicCollector) friendlyOSName() string {
	switch c.goos {
	case "linux":
		if name := c.prettyName(); name != "" {
			return "Linux/" + name
		}
		return "Linux"
	case "darwin":
		return "Darwin/macOS"
	case "windows":
		return "Windows"
	default:
		return c.goos
	}
}

func (c *BasicCollector) prettyName() string {
	rc, err := c.osRelease()
	if err != nil {
		return ""
	}
	defer rc.Close()
	return parsePrettyName(rc)
}

func parsePrettyName(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		value, ok := strings.CutPrefix(line, "PRETTY_NAME=")
		if !ok {
			continue
		}
		return strings.Trim(value, `"'`)
	}
	return ""
}

var _ ports.EnvironmentCollector = (*BasicCollector)(nil)
