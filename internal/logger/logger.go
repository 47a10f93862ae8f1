// Package logger builds the JSON logger shared by the server, migrations and tracing setup.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger writing one JSON object per line to w.
// Timestamps are emitted under "ts" in the given location.
func New(w io.Writer, level string, loc *time.Location) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time { return time.Now().In(loc) }

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
