package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelSilent:
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a config value such as "debug" or "warn" into a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "silent", "off", "none":
		return LevelSilent, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s (valid: debug, info, warn, error, silent)", s)
	}
}

// Logger provides structured logging with configurable levels
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	SetLevel(level Level)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value any
}

// F is a convenience function for creating fields
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// standardLogger implements Logger interface
type standardLogger struct {
	level  Level
	out    io.Writer
	mu     *sync.Mutex
	fields []Field
	styles levelStyles
}

type levelStyles struct {
	debug lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
	field lipgloss.Style
}

// newLevelStyles binds the tag colours to the writer's colour profile, so
// output to files and buffers stays plain.
func newLevelStyles(out io.Writer) levelStyles {
	r := lipgloss.NewRenderer(out)
	return levelStyles{
		debug: r.NewStyle().Foreground(lipgloss.Color("8")),
		info:  r.NewStyle().Foreground(lipgloss.Color("12")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		err:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		field: r.NewStyle().Faint(true),
	}
}

func (s levelStyles) tag(level Level) string {
	label := "[" + level.String() + "]"
	switch level {
	case LevelDebug:
		return s.debug.Render(label)
	case LevelInfo:
		return s.info.Render(label)
	case LevelWarn:
		return s.warn.Render(label)
	case LevelError:
		return s.err.Render(label)
	default:
		return label
	}
}

// NewLogger creates a new logger with the specified level and output
func NewLogger(level Level, out io.Writer) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &standardLogger{
		level:  level,
		out:    out,
		mu:     &sync.Mutex{},
		fields: make([]Field, 0),
		styles: newLevelStyles(out),
	}
}

// NewDefaultLogger creates a logger with Info level writing to stderr
func NewDefaultLogger() Logger {
	return NewLogger(LevelInfo, os.Stderr)
}

// NewSilentLogger creates a logger that outputs nothing
func NewSilentLogger() Logger {
	return NewLogger(LevelSilent, io.Discard)
}

// SetLevel sets the minimum logging level
func (l *standardLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// WithFields returns a new logger with additional fields. The child
// shares the parent's output and lock.
func (l *standardLogger) WithFields(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &standardLogger{
		level:  l.level,
		out:    l.out,
		mu:     l.mu,
		fields: newFields,
		styles: l.styles,
	}
}

// Debug logs a debug message
func (l *standardLogger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message
func (l *standardLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message
func (l *standardLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message
func (l *standardLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

func (l *standardLogger) log(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	b.WriteByte(' ')
	b.WriteString(l.styles.tag(level))
	b.WriteByte(' ')
	b.WriteString(msg)

	if len(l.fields)+len(fields) > 0 {
		b.WriteString(" |")
		for _, field := range append(append([]Field{}, l.fields...), fields...) {
			b.WriteString(l.styles.field.Render(fmt.Sprintf(" %s=%v", field.Key, field.Value)))
		}
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.out, b.String())
}

// Global default logger
var defaultLogger = NewDefaultLogger()

// SetDefault sets the global default logger
func SetDefault(l Logger) {
	defaultLogger = l
}

// Default returns the global default logger
func Default() Logger {
	return defaultLogger
}

// Convenience functions using the default logger
func Debug(msg string, fields ...Field) {
	defaultLogger.Debug(msg, fields...)
}

func Info(msg string, fields ...Field) {
	defaultLogger.Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	defaultLogger.Warn(msg, fields...)
}

func Error(msg string, fields ...Field) {
	defaultLogger.Error(msg, fields...)
}
