package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerQuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, false)

	log.Debug("hidden", nil)
	log.Info("hidden too", map[string]interface{}{"k": "v"})
	assert.Empty(t, buf.String())

	log.Warn("cache miss", map[string]interface{}{"model": "m"})
	assert.Contains(t, buf.String(), "cache miss")
	assert.Contains(t, buf.String(), "model=m")
}

func TestLoggerVerboseIncludesDebugAndErrors(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, true)

	log.Debug("calling provider", map[string]interface{}{"model": "m"})
	log.Error("write failed", errors.New("disk full"), nil)

	out := buf.String()
	assert.Contains(t, out, "calling provider")
	assert.Contains(t, out, "disk full")
	assert.Contains(t, out, "component=iop")
}
