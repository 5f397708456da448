// Package logging provides the bot's leveled file logger.
//
// Debug.log is truncated on every start so it only holds the current session.
// The package-level helpers are no-ops until Init is called, which keeps the
// core packages usable from tests without any setup.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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
	default:
		return "UNKNOWN"
	}
}

// Logger writes prefixed messages to a single writer.
type Logger struct {
	out    io.Closer
	logger *log.Logger
	min    Level
	mu     sync.Mutex
	closed bool
}

var global atomic.Pointer[Logger]

// New builds a logger on w that drops anything below min.
func New(w io.Writer, min Level) *Logger {
	l := &Logger{
		logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		min:    min,
	}
	if c, ok := w.(io.Closer); ok {
		l.out = c
	}
	return l
}

// Init opens path (truncating it) and installs it as the global logger.
func Init(path string, min Level) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	SetGlobal(New(file, min))
	Info("Logger initialized (log file cleared)")
	return nil
}

// SetGlobal replaces the logger used by the package helpers.
func SetGlobal(l *Logger) {
	global.Store(l)
}

// Close uninstalls the global logger and closes its file if there is one.
// Goroutines still holding the logger drop their messages afterwards.
func Close() {
	l := global.Swap(nil)
	if l == nil {
		return
	}
	l.Info("Logger closing")

	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.out != nil {
		l.out.Close()
	}
}

func (l *Logger) printf(level Level, format string, v ...interface{}) {
	if level < l.min {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.logger.Printf("["+level.String()+"] "+format, v...)
}

// Debug logs debug level messages
func (l *Logger) Debug(format string, v ...interface{}) { l.printf(LevelDebug, format, v...) }

// Info logs info level messages
func (l *Logger) Info(format string, v ...interface{}) { l.printf(LevelInfo, format, v...) }

// Warn logs warning level messages
func (l *Logger) Warn(format string, v ...interface{}) { l.printf(LevelWarn, format, v...) }

// Error logs error level messages
func (l *Logger) Error(format string, v ...interface{}) { l.printf(LevelError, format, v...) }

// Debug logs through the global logger.
func Debug(format string, v ...interface{}) {
	if l := global.Load(); l != nil {
		l.Debug(format, v...)
	}
}

// Info logs through the global logger.
func Info(format string, v ...interface{}) {
	if l := global.Load(); l != nil {
		l.Info(format, v...)
	}
}

// Warn logs through the global logger.
func Warn(format string, v ...interface{}) {
	if l := global.Load(); l != nil {
		l.Warn(format, v...)
	}
}

// Error logs through the global logger.
func Error(format string, v ...interface{}) {
	if l := global.Load(); l != nil {
		l.Error(format, v...)
	}
}
