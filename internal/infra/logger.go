package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the service logger. Development and cli environments log
// human readable lines at debug level; cli output goes to stderr so command
// results on stdout stay machine readable.
func NewLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	var out io.Writer = os.Stdout
	switch appEnv {
	case "development":
		level = zerolog.DebugLevel
	case "cli":
		out = os.Stderr
	case "test":
		level = zerolog.Disabled
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "workshop").
		Logger()

	if appEnv == "development" || appEnv == "cli" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger
}

// Logger aliases zerolog.Logger so packages outside infra can accept a logger
// without importing zerolog themselves.
type Logger = zerolog.Logger
