// Package telemetry wires structured logging and metrics collection for
// the bot: a zerolog.Logger tuned for TTY-vs-pipe output, and a small
// VictoriaMetrics counter/gauge registry for protocol-level stats
// (spec.md ambient stack; manifests/R2Northstar-Atlas and
// manifests/MattLCE-n1 pair these two libraries for Go game-netcode
// clients).
package telemetry

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NewLogger builds a zerolog.Logger: a human-readable console writer
// when stderr is a TTY, compact JSON otherwise, at a level derived from
// levelName (falling back to info on an unrecognized value) or forced to
// debug when debug is true (FACTORIO_DEBUG).
func NewLogger(levelName string, debug bool) zerolog.Logger {
	var out zerolog.ConsoleWriter
	var logger zerolog.Logger

	if isatty.IsTerminal(os.Stderr.Fd()) {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		logger = zerolog.New(out)
	} else {
		logger = zerolog.New(os.Stderr)
	}
	logger = logger.With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}
	return logger.Level(level)
}
