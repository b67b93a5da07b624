package contract

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the diagnostics logger. Operator-facing text never goes through it.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}).
	Level(zerolog.WarnLevel).
	With().Timestamp().Logger()

// SetLogLevel changes the minimum level of Logger.
func SetLogLevel(level zerolog.Level) {
	Logger = Logger.Level(level)
}

// exit is swapped in tests.
var exit = os.Exit

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithLevel(zerolog.FatalLevel).Err(err).Msg(msg)
	exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger.Warn().Err(err).Msg(msg)
}
