// Package logging builds the zap loggers of the command line tools.
package logging

import (
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Bootstrap returns a development logger for use before the configuration is loaded.
func Bootstrap() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// ValidLevels lists the accepted log levels.
var ValidLevels = []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}

// IsValidLevel reports whether level names a log level, ignoring case.
func IsValidLevel(level string) bool {
	return slices.Contains(ValidLevels, strings.ToLower(level))
}

// Options select the logger built by New.
type Options struct {
	Level  string // One of ValidLevels.
	Env    string // "prod" logs JSON, anything else logs for humans.
	Quiet  bool   // Only log errors.
	Silent bool   // Log nothing.
}

// New builds the logger of a run. An invalid level falls back to info with a warning on stderr.
func New(o Options) (*zap.Logger, error) {
	if o.Silent {
		return zap.NewNop(), nil
	}

	var cfg zap.Config
	if o.Env == "prod" {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := strings.ToLower(o.Level)
	if o.Quiet {
		level = "error"
	}
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		_, _ = os.Stderr.WriteString("WARNING: invalid log level \"" + o.Level +
			"\"; valid levels are: " + strings.Join(ValidLevels, ", ") + ". Defaulting to \"info\".\n")
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// MustNew is New for main functions: it exits if the logger cannot be built.
func MustNew(o Options) *zap.Logger {
	logger, err := New(o)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	return logger
}
