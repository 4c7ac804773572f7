package log

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).With().Timestamp().Logger()

// SetLevel sets the global log level. Unknown names leave the level unchanged.
func SetLevel(name string) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return
	}
	zerolog.SetGlobalLevel(level)
}

// Debug logs a debug message
func Debug(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

// Info logs an informational message
func Info(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

// Error logs an error message
func Error(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}

// Fatal logs a fatal message and exits
func Fatal(format string, args ...any) {
	logger.Fatal().Msgf(format, args...)
}
