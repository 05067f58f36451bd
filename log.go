package bramble

import (
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// NewLogger returns a console logger on stderr at the configured level.
func NewLogger(cfg Config) zerolog.Logger {
	return newLogger(os.Stderr, cfg)
}

func newLogger(out io.Writer, cfg Config) zerolog.Logger {
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.Debug && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func parseLogLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, eris.Wrapf(err, "log level %q", s)
	}
	return level, nil
}

// component returns a sub-logger tagged with the given component name.
func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
