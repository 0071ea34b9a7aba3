package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Options struct {
	Level   string
	Format  string
	NoColor bool

	// Output defaults to stderr.
	Output io.Writer
}

// InitDefault sets up a console logger used before flags are parsed.
func InitDefault() {
	Init(Options{Level: "info", Format: FormatConsole})
}

// Init configures the global zerolog logger.
// Unknown levels fall back to info, unknown formats to console.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if opts.Format == FormatJSON {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    opts.NoColor,
			TimeFormat: time.TimeOnly,
		}).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &log.Logger
}
