package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the different logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARNING:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger wraps a zerolog logger behind a printf-style API
type Logger struct {
	mu     sync.RWMutex
	level  LogLevel
	format string
	out    io.Writer
	zl     zerolog.Logger
}

var (
	globalMu     sync.Mutex
	globalLogger *Logger
)

// Init initializes the global logger with the specified level and a console output
func Init(level LogLevel, output io.Writer) {
	InitWithFormat(level, output, FormatConsole)
}

// InitWithFormat initializes the global logger with an explicit output format
func InitWithFormat(level LogLevel, output io.Writer, format string) {
	if output == nil {
		output = os.Stdout
	}

	l := &Logger{level: level, format: normalizeFormat(format), out: output}
	l.zl = l.build()

	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

func normalizeFormat(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), FormatJSON) {
		return FormatJSON
	}
	return FormatConsole
}

func (l *Logger) build() zerolog.Logger {
	var w io.Writer = l.out
	if l.format == FormatConsole {
		_, isFile := l.out.(*os.File)
		w = zerolog.ConsoleWriter{
			Out:        l.out,
			TimeFormat: time.RFC3339,
			NoColor:    !isFile,
		}
	}
	return zerolog.New(w).Level(l.level.zerolog()).With().Timestamp().Logger()
}

// ParseLogLevel parses a string log level and returns the corresponding LogLevel
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	globalMu.Lock()
	l := globalLogger
	globalMu.Unlock()
	if l == nil {
		Init(INFO, os.Stdout)
		globalMu.Lock()
		l = globalLogger
		globalMu.Unlock()
	}
	return l
}

// SetLevel changes the log level of the global logger
func SetLevel(level LogLevel) {
	l := GetLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.zl = l.zl.Level(level.zerolog())
}

// SetOutput changes the output destination of the global logger
func SetOutput(output io.Writer) {
	if output == nil {
		return
	}
	l := GetLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = output
	l.zl = l.build()
}

func (l *Logger) logger() zerolog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.zl
}

// Zerolog exposes the underlying logger for structured fields
func (l *Logger) Zerolog() *zerolog.Logger {
	zl := l.logger()
	return &zl
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	zl := l.logger()
	zl.Debug().Msgf(format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	zl := l.logger()
	zl.Info().Msgf(format, v...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, v ...interface{}) {
	zl := l.logger()
	zl.Warn().Msgf(format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	zl := l.logger()
	zl.Error().Msgf(format, v...)
}

// Fatal logs an error message and exits the program
func (l *Logger) Fatal(format string, v ...interface{}) {
	zl := l.logger()
	zl.WithLevel(zerolog.FatalLevel).Msgf(format, v...)
	os.Exit(1)
}

// Global convenience functions
func Debug(format string, v ...interface{}) {
	GetLogger().Debug(format, v...)
}

func Info(format string, v ...interface{}) {
	GetLogger().Info(format, v...)
}

func Warning(format string, v ...interface{}) {
	GetLogger().Warning(format, v...)
}

func Error(format string, v ...interface{}) {
	GetLogger().Error(format, v...)
}

func Fatal(format string, v ...interface{}) {
	GetLogger().Fatal(format, v...)
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	l := GetLogger()
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= DEBUG
}

// IsInfoEnabled returns true if info logging is enabled
func IsInfoEnabled() bool {
	return GetLevel() <= INFO
}

// IsWarningEnabled returns true if warning logging is enabled
func IsWarningEnabled() bool {
	return GetLevel() <= WARNING
}

// IsErrorEnabled returns true if error logging is enabled
func IsErrorEnabled() bool {
	return GetLevel() <= ERROR
}
