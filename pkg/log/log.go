// Package log is a thin wrapper around the standard library logger used by
// every islamhouse service. It adds named loggers, Warn/Debug levels and
// global or per-service debug toggles.
//
// Usage:
//
//	l := log.ForService("aggregator")
//	l.Infof("federated search for %q", term)
//	l.Debugf("category %s contributed %d items", name, n) // debug only
//
// Debug output is off by default; enable it globally with
// SetGlobalDebug(true) or per service with EnableDebugFor("aggregator").
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sync"
	"sync/atomic"
)

const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)

// Logger is a named logger. Obtain one with ForService.
type Logger struct {
	name string
	std  *stdlog.Logger
}

// writerHolder keeps atomic.Value happy when the writer's concrete type
// changes (stderr in production, a buffer in tests).
type writerHolder struct {
	w io.Writer
}

var (
	globalDebug  atomic.Bool
	serviceDebug sync.Map // map[string]*atomic.Bool
	loggers      sync.Map // map[string]*Logger
	outputWriter atomic.Value
)

func init() {
	outputWriter.Store(writerHolder{w: os.Stderr})
}

// ForService returns (and memoizes) the named logger for a service.
func ForService(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	if l, ok := loggers.Load(name); ok {
		return l.(*Logger)
	}
	w := outputWriter.Load().(writerHolder).w
	logger := &Logger{
		name: name,
		std:  stdlog.New(w, "", stdlog.LstdFlags|stdlog.Lmicroseconds),
	}
	actual, _ := loggers.LoadOrStore(name, logger)
	return actual.(*Logger)
}

// SetGlobalDebug enables or disables debug logging for every service.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// EnableDebugFor enables debug logging for a single service.
func EnableDebugFor(name string) {
	if name == "" {
		return
	}
	val, _ := serviceDebug.LoadOrStore(name, &atomic.Bool{})
	val.(*atomic.Bool).Store(true)
}

// DisableDebugFor disables per-service debug logging for a single service.
func DisableDebugFor(name string) {
	if name == "" {
		return
	}
	if val, ok := serviceDebug.Load(name); ok {
		val.(*atomic.Bool).Store(false)
	}
}

// DebugEnabledFor reports whether debug output is active for name, either
// globally or via EnableDebugFor.
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	if val, ok := serviceDebug.Load(name); ok {
		return val.(*atomic.Bool).Load()
	}
	return false
}

// SetOutput redirects all loggers, existing and future, to w.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	outputWriter.Store(writerHolder{w: w})
	loggers.Range(func(_, v any) bool {
		v.(*Logger).std.SetOutput(w)
		return true
	})
}

func (l *Logger) logInternal(level, msg string) {
	l.std.Println(level + " [" + l.name + "] " + msg)
}

// Infof logs an informational message with fmt.Sprintf semantics.
func (l *Logger) Infof(format string, args ...any) {
	l.logInternal(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.logInternal(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...any) {
	l.logInternal(LevelError, fmt.Sprintf(format, args...))
}

// Debugf logs a debug message when debug is enabled for this logger.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.logInternal(LevelDebug, fmt.Sprintf(format, args...))
}
