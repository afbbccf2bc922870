// Package log provides small named loggers built on the standard
// library logger. Each component (session, favorites, api, ...) gets
// its own logger via For(name); debug output can be enabled globally or
// per component, and the output writer can be swapped so tests can
// assert on log contents.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// Logger is a named logger. Obtain one with For.
type Logger struct {
	name string
	std  *log.Logger
}

// writerHolder keeps atomic.Value happy when the stored writer's
// concrete type changes (os.File in production, bytes.Buffer in tests).
type writerHolder struct {
	w io.Writer
}

var (
	globalDebug    atomic.Bool
	componentDebug sync.Map // map[string]*atomic.Bool
	loggers        sync.Map // map[string]*Logger
	output         atomic.Value // writerHolder
)

func init() {
	output.Store(writerHolder{w: os.Stderr})
}

// For returns (and memoizes) the logger for the given component name.
func For(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	if l, ok := loggers.Load(name); ok {
		return l.(*Logger)
	}
	w := output.Load().(writerHolder).w
	l := &Logger{name: name, std: log.New(w, "", log.LstdFlags)}
	actual, _ := loggers.LoadOrStore(name, l)
	return actual.(*Logger)
}

// SetGlobalDebug enables or disables debug logging for every component.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// EnableDebugFor enables debug logging for a single component.
func EnableDebugFor(name string) {
	v, _ := componentDebug.LoadOrStore(name, &atomic.Bool{})
	v.(*atomic.Bool).Store(true)
}

// DebugEnabledFor reports whether debug output is active for name,
// either globally or per component.
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	if v, ok := componentDebug.Load(name); ok {
		return v.(*atomic.Bool).Load()
	}
	return false
}

// SetOutput redirects all current and future loggers to w.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	output.Store(writerHolder{w: w})
	loggers.Range(func(_, v any) bool {
		v.(*Logger).std.SetOutput(w)
		return true
	})
}

func (l *Logger) logf(level, format string, args ...any) {
	l.std.Println(level + " [" + l.name + "] " + fmt.Sprintf(format, args...))
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.logf("INFO", format, args...)
}

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.logf("WARN", format, args...)
}

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf("ERROR", format, args...)
}

// Debugf logs a debug message when debug is enabled for this component.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.logf("DEBUG", format, args...)
}
