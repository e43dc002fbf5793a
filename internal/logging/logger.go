// Package logging provides the operator-facing logger for wsops.
//
// Output is line-oriented and written to stderr so that command output
// (CSV, JSON, tables) on stdout stays machine-readable. Sensitive values
// must be wrapped in Secret before being passed to any log call.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var marks = map[level]struct {
	plain string
	color string
}{
	levelDebug: {"[debug]", "\033[36m[debug]\033[0m"},
	levelInfo:  {"✓", "\033[32m✓\033[0m"},
	levelWarn:  {"⚠", "\033[33m⚠\033[0m"},
	levelError: {"✗", "\033[31m✗\033[0m"},
}

// Logger writes leveled, glanceable messages for a single operator run.
type Logger struct {
	out     io.Writer
	debug   bool
	noColor bool
}

// New creates a logger writing to stderr.
func New(debug, noColor bool) *Logger {
	return &Logger{out: os.Stderr, debug: debug, noColor: noColor}
}

// NewWithWriter creates a logger writing to w. Used by tests to capture output.
func NewWithWriter(w io.Writer, debug, noColor bool) *Logger {
	return &Logger{out: w, debug: debug, noColor: noColor}
}

func (l *Logger) emit(lv level, format string, args ...interface{}) {
	mark := marks[lv].color
	if l.noColor {
		mark = marks[lv].plain
	}
	fmt.Fprintf(l.out, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// Info logs a progress or success message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(levelInfo, format, args...)
}

// Warn logs a non-fatal condition the operator should see.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(levelWarn, format, args...)
}

// Error logs a failure.
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit(levelError, format, args...)
}

// Debug logs only when debug mode is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.emit(levelDebug, format, args...)
}

// Secret is a string that always renders redacted through fmt verbs.
// Wrap passwords, tokens, and wrap tokens before logging them.
type Secret string

func (s Secret) String() string { return "[REDACTED]" }

// GoString keeps %#v from leaking the underlying value.
func (s Secret) GoString() string { return "[REDACTED]" }

// Redact removes known sensitive values from an arbitrary string, such as
// raw error text returned by the cluster.
func Redact(s string, secrets []string) string {
	for _, secret := range secrets {
		if len(secret) > 3 {
			s = strings.ReplaceAll(s, secret, "[REDACTED]")
		}
	}
	return s
}
