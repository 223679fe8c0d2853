/*
Package logx provides a structured logging wrapper based on zerolog.

It initializes the global logger, picks the output format (console or JSON) from the
environment, and offers helpers for the Info, Warn, Error and Fatal levels plus
per-component child loggers.
*/
package logx

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitGlobalLogger initializes the global zerolog instance writing to out.
// A nil out means os.Stdout.
// Development: Debug level with a human-readable ConsoleWriter.
// Production: Info level, JSON lines.
func InitGlobalLogger(isDevelopment bool, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(out).With().Timestamp().Logger()

	if isDevelopment {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    !IsTerminal(out),
			TimeFormat: time.RFC3339,
		})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Caller().Logger()
}

// IsTerminal reports whether w is a character device such as an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Logger returns a pointer to the global zerolog.Logger instance.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// Component returns a child logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// emit attaches err and the key-value fields to ev and writes it. An odd field count is
// reported and the fields are dropped so zerolog does not panic.
func emit(ev *zerolog.Event, level string, err error, msg string, fields []any) {
	if len(fields)%2 != 0 {
		Logger().Warn().
			Int("fields_count", len(fields)).
			Str("log_level", level).
			Msgf("Odd number of log fields passed to %s, fields dropped: %v", level, fields)
		fields = nil
	}
	if err != nil {
		ev = ev.Err(err)
	}
	// Skip emit and the exported helper so the caller column points at application code.
	ev.Fields(fields).CallerSkipFrame(2).Msg(msg)
}

func Debug(msg string, fields ...any) { emit(Logger().Debug(), "debug", nil, msg, fields) }

func Info(msg string, fields ...any) { emit(Logger().Info(), "info", nil, msg, fields) }

func Warn(msg string, fields ...any) { emit(Logger().Warn(), "warn", nil, msg, fields) }

// Error logs msg at error level with err attached.
func Error(err error, msg string, fields ...any) {
	emit(Logger().Error(), "error", err, msg, fields)
}

// Fatal logs msg with err attached and exits the process.
func Fatal(err error, msg string, fields ...any) {
	emit(Logger().Fatal(), "fatal", err, msg, fields)
}
