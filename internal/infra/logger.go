package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so the rest of the service depends on the
// logging contract without importing the third-party module everywhere.
type Logger = zerolog.Logger

// NewLogger builds the process-wide logger. Development runs get
// human-readable console output at debug level; everything else emits
// structured JSON at info.
func NewLogger(appEnv string) Logger {
	level := zerolog.InfoLevel
	var out io.Writer = os.Stdout
	if appEnv == "development" {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "image-edit-api").
		Logger()
}
