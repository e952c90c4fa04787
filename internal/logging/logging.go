// Package logging provides the leveled stderr logger used by the controller
// and the event handler (the store logs per-row failures through the
// standard library log package directly). It keeps the teacher's plain log.Printf register (no structured
// logging library is anywhere in the dependency pack for this domain) and
// only adds the info/debug gate the specification's --debug flag requires.
package logging

import (
	"log"
	"os"
)

// Level controls verbosity. Debug-level lines are only emitted when the
// logger was constructed with debug enabled.
type Level int

const (
	// LevelInfo emits only informational lines.
	LevelInfo Level = iota
	// LevelDebug emits informational and debug lines.
	LevelDebug
)

// Logger wraps the standard library logger with a level gate.
type Logger struct {
	level Level
	std   *log.Logger
}

// New returns a Logger writing to stderr, matching the teacher's
// log.Printf/log.Println call sites.
func New(debug bool) *Logger {
	level := LevelInfo
	if debug {
		level = LevelDebug
	}
	return &Logger{
		level: level,
		std:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Infof logs an informational line unconditionally.
func (l *Logger) Infof(format string, args ...any) {
	l.std.Printf(format, args...)
}

// Debugf logs a line only when the logger was constructed with debug mode.
func (l *Logger) Debugf(format string, args ...any) {
	if l.level < LevelDebug {
		return
	}
	l.std.Printf("[debug] "+format, args...)
}

// Errorf logs an error line unconditionally, matching the teacher's
// "Error saving ..." style.
func (l *Logger) Errorf(format string, args ...any) {
	l.std.Printf("error: "+format, args...)
}
