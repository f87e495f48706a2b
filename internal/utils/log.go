package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It writes to stderr so stdout stays
// reserved for command output.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SetLogLevel sets the level from a name such as "debug" or "warn".
func SetLogLevel(level string) error {
	// trace and panic are not exposed
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "info":
		Log.SetLevel(logrus.InfoLevel)
	case "warning", "warn", "":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	case "fatal":
		Log.SetLevel(logrus.FatalLevel)
	default:
		return fmt.Errorf("bad log level %q (use debug, info, warn, error, fatal)", level)
	}
	return nil
}

// LeveledLogger adapts Log to clients that log with key/value pairs, such
// as go-retryablehttp.
type LeveledLogger struct{}

func (LeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	Log.WithFields(fields(keysAndValues)).Error(msg)
}

func (LeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	Log.WithFields(fields(keysAndValues)).Warn(msg)
}

func (LeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	Log.WithFields(fields(keysAndValues)).Info(msg)
}

func (LeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	Log.WithFields(fields(keysAndValues)).Debug(msg)
}

func fields(kv []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
