package sdk

import "fmt"

// Level is the severity of a plugin log statement.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// LogFunc is the logging callback the host passes into a plugin's entry
// point. It establishes exactly one logging destination per process: the
// host's sink.
type LogFunc func(level Level, msg string)

// Logger wraps a LogFunc with leveled convenience methods for plugin-side
// code.
type Logger struct {
	log LogFunc
}

// NewLogger returns a Logger relaying to the given callback. A nil callback
// yields a Logger that drops everything.
func NewLogger(log LogFunc) *Logger {
	return &Logger{log: log}
}

func (l *Logger) emit(level Level, format string, args []any) {
	if l.log == nil {
		return
	}
	if len(args) == 0 {
		l.log(level, format)
		return
	}
	l.log(level, fmt.Sprintf(format, args...))
}

// Tracef logs at trace level.
func (l *Logger) Tracef(format string, args ...any) { l.emit(LevelTrace, format, args) }

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.emit(LevelDebug, format, args) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.emit(LevelInfo, format, args) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.emit(LevelWarn, format, args) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.emit(LevelError, format, args) }
