// =============================================================================
// Contract Generator - Logging Package
// =============================================================================
//
// Thin wrapper around logrus that provides a single shared logger for the
// application. Commands set the level once from configuration; everything
// else obtains the logger via GetLogger and attaches context fields.
//
// =============================================================================

package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the application logger. It embeds a logrus entry so callers get
// the full structured API (WithField, Infof, Warnf, ...).
type Logger struct {
	*logrus.Entry
}

var (
	instance *logrus.Logger
	once     sync.Once
)

// GetLogger returns the shared application logger, initializing it with
// defaults on first use.
func GetLogger() Logger {
	once.Do(func() {
		instance = newLogger()
	})
	return Logger{logrus.NewEntry(instance)}
}

// WithField returns a logger carrying an additional context field.
func (l Logger) WithField(key string, value interface{}) Logger {
	return Logger{l.Entry.WithField(key, value)}
}

// SetLevel adjusts the verbosity of the shared logger.
// Unknown level names fall back to "info".
func SetLevel(level string) {
	l := GetLogger()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.Logger.SetLevel(parsed)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})
	return l
}
