package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger implements ports.Logger on top of logrus.
type Logger struct {
	entry *logrus.Entry
}

// New creates a Logger writing text records to stderr.
// Verbose lowers the level to debug; otherwise only warnings and errors are written.
func New(verbose bool) *Logger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer, verbose bool) *Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if verbose {
		base.SetLevel(logrus.DebugLevel)
	} else {
		base.SetLevel(logrus.WarnLevel)
	}
	return &Logger{entry: logrus.NewEntry(base).WithField("component", "iop")}
}

// Discard returns a Logger that drops everything. Useful in tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard, false)
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).WithError(err).Error(msg)
}
