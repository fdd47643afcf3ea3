// Package logging provides the leveled logger shared by the editor
// subsystems. Each subsystem logs through a Named child, so lines read
// "[mapedit/selection] DEBUG: mode component".
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	// Named returns a child logger whose lines carry name after the
	// parent's prefix. Children share the output and the debug switch.
	Named(name string) Logger
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

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
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// sink is the state every logger of one tree shares.
type sink struct {
	mu    sync.Mutex
	debug bool
	out   *log.Logger
	err   *log.Logger
}

type DefaultLogger struct {
	sink  *sink
	scope string
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(prefix, debug, os.Stdout, os.Stderr)
}

// NewWriterLogger logs Debug and Info lines to out, Warn and Error to errOut.
func NewWriterLogger(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		sink: &sink{
			debug: debug,
			out:   log.New(out, "", flags),
			err:   log.New(errOut, "", flags),
		},
		scope: prefix,
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.sink.mu.Lock()
	l.sink.debug = enabled
	l.sink.mu.Unlock()
}

func (l *DefaultLogger) Named(name string) Logger {
	if name == "" {
		return l
	}
	scope := name
	if l.scope != "" {
		scope = l.scope + "/" + name
	}
	return &DefaultLogger{sink: l.sink, scope: scope}
}

func (l *DefaultLogger) Scope() string {
	return l.scope
}

func (l *DefaultLogger) write(level Level, format string, args ...any) {
	if level == LevelDebug && !l.DebugEnabled() {
		return
	}
	var b strings.Builder
	if l.scope != "" {
		b.WriteString("[" + l.scope + "] ")
	}
	b.WriteString(level.String())
	b.WriteString(": ")
	fmt.Fprintf(&b, format, args...)

	target := l.sink.out
	if level >= LevelWarn {
		target = l.sink.err
	}
	target.Print(b.String())
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.write(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.write(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.write(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.write(LevelError, format, args...) }

type nopLogger struct{}

func NewNopLogger() Logger              { return nopLogger{} }
func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) SetDebug(bool)         {}
func (n nopLogger) Named(string) Logger { return n }
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
