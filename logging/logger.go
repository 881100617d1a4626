package logging

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration
type Config struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
	// Service is stamped on every entry; empty means DefaultService
	Service string `mapstructure:"service" yaml:"service"`
}

// DefaultService names the game server in log entries
const DefaultService = "stakes"

// Logger wraps zerolog.Logger for easier use
type Logger = zerolog.Logger

// shortCallerMarshalFunc formats caller to show only filename and line number
func shortCallerMarshalFunc(pc uintptr, file string, line int) string {
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

// New builds the process logger and installs it as the zerolog global
func New(config Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLogLevel(config.Level))
	zerolog.CallerMarshalFunc = shortCallerMarshalFunc

	var output io.Writer = os.Stdout
	switch config.Output {
	case "stderr":
		output = os.Stderr
	case "discard", "none":
		output = io.Discard
	}

	logger := newLogger(config, output)
	log.Logger = logger
	return logger
}

func newLogger(config Config, output io.Writer) zerolog.Logger {
	if config.Format == "pretty" || config.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}

	service := config.Service
	if service == "" {
		service = DefaultService
	}
	return zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Str("service", service).
		Logger()
}

// NewDefault creates a logger with default settings
func NewDefault() zerolog.Logger {
	return New(Config{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	})
}

// parseLogLevel converts string log level to zerolog.Level
func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithTraceID tags entries with the command trace id. REPL commands may have
// none, in which case the logger is returned unchanged.
func WithTraceID(logger zerolog.Logger, traceID string) zerolog.Logger {
	if traceID == "" {
		return logger
	}
	return logger.With().Str("trace_id", traceID).Logger()
}

// WithUsername adds username to logger context
func WithUsername(logger zerolog.Logger, username string) zerolog.Logger {
	return logger.With().Str("username", username).Logger()
}

// WithCommand adds the command name to logger context
func WithCommand(logger zerolog.Logger, command string) zerolog.Logger {
	return logger.With().Str("command", command).Logger()
}

// WithComponent tags entries with the subsystem (dispatcher, store, kafka_producer...)
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
