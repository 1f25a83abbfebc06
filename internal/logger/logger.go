package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type contextKey string

const LoggerKey contextKey = "logger"

// InitLogger builds the process logger, reports config warnings through it
// and stores it in the returned context.
func InitLogger(ctx context.Context, logLevel string, jsonLog bool, warnings []string) (context.Context, *zerolog.Logger) {
	log := NewLogger(logLevel, jsonLog)
	for _, warning := range warnings {
		log.Warn().Msg(warning)
	}
	return ToContext(ctx, log), log
}

// NewLogger creates a logger writing to stderr, either as JSON lines or
// through a colourised console writer.
func NewLogger(logLevel string, jsonLog bool) *zerolog.Logger {
	zerolog.SetGlobalLevel(getLogLevel(logLevel))

	var out io.Writer = os.Stderr
	if !jsonLog {
		out = consoleWriter(os.Stderr)
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	return &logger
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"}

	output.FormatLevel = func(i interface{}) string {
		var l string
		if ll, ok := i.(string); ok {
			switch ll {
			case "debug":
				l = colorize(ll, 36) // cyan
			case "info":
				l = colorize(ll, 34) // blue
			case "warn":
				l = colorize(ll, 33) // yellow
			case "error":
				l = colorize(ll, 31) // red
			case "fatal":
				l = colorize(ll, 35) // magenta
			case "panic":
				l = colorize(ll, 41) // white on red background
			default:
				l = colorize(ll, 37) // white
			}
		} else {
			if i == nil {
				l = colorize("???", 37)
			} else {
				lStr := strings.ToUpper(fmt.Sprintf("%s", i))
				if len(lStr) > 3 {
					lStr = lStr[:3]
				}
				l = lStr
			}
		}
		return fmt.Sprintf("| %s |", l)
	}
	return output
}

// ToContext stores log in ctx for FromContext.
func ToContext(ctx context.Context, log *zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, log)
}

// FromContext extracts the main logger from the context.
func FromContext(ctx context.Context) *zerolog.Logger {
	logger, ok := ctx.Value(LoggerKey).(*zerolog.Logger)
	if !ok {
		// Fallback to a default logger if none is found in the context.
		defaultLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		defaultLogger.Warn().Msg("Failed to extract logger from context")
		return &defaultLogger
	}
	return logger
}

var levels = map[string]zerolog.Level{
	"trace": zerolog.TraceLevel,
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
	"fatal": zerolog.FatalLevel,
	"panic": zerolog.PanicLevel,
}

// ValidLevel reports whether level names one of the supported levels,
// ignoring case.
func ValidLevel(level string) bool {
	_, ok := levels[strings.ToLower(level)]
	return ok
}

func getLogLevel(logLevel string) zerolog.Level {
	if level, ok := levels[strings.ToLower(logLevel)]; ok {
		return level
	}
	return zerolog.InfoLevel
}

func colorize(s string, color int) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, s)
}
