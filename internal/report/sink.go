// Package report decouples analysis code from output channels. Analysis
// functions hand diagnostics and computed statistics to a Sink; the sink
// decides whether they go to a terminal, a structured log, or a test recorder.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Level grades a diagnostic message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Stat is a computed value addressed to a subject (a column, a file, a column pair).
type Stat struct {
	Name    string
	Subject string
	Value   any
}

// Sink receives diagnostics and statistics. Implementations must not feed
// anything back into the caller.
type Sink interface {
	Report(level Level, msg string)
	Emit(stat Stat)
}

// Warnf formats and reports a warning.
func Warnf(s Sink, format string, args ...any) {
	s.Report(LevelWarn, fmt.Sprintf(format, args...))
}

// Infof formats and reports an informational message.
func Infof(s Sink, format string, args ...any) {
	s.Report(LevelInfo, fmt.Sprintf(format, args...))
}

// Markdowner is implemented by values that render themselves for terminals.
type Markdowner interface {
	Markdown() string
}

// Console writes human-readable lines.
type Console struct {
	W io.Writer
	// Quiet suppresses info messages; warnings and stats are still written.
	Quiet bool
	// NoStats drops emitted stats, for callers that render results themselves.
	NoStats bool
}

func (c *Console) Report(level Level, msg string) {
	switch level {
	case LevelWarn:
		fmt.Fprintf(c.W, "⚠ %s\n", msg)
	case LevelError:
		fmt.Fprintf(c.W, "✗ %s\n", msg)
	default:
		if c.Quiet {
			return
		}
		fmt.Fprintf(c.W, "ℹ %s\n", msg)
	}
}

func (c *Console) Emit(stat Stat) {
	if c.NoStats {
		return
	}
	if md, ok := stat.Value.(Markdowner); ok {
		fmt.Fprintln(c.W, strings.TrimRight(md.Markdown(), "\n"))
		return
	}
	if stat.Subject != "" {
		fmt.Fprintf(c.W, "%s (%s): %v\n", stat.Name, stat.Subject, stat.Value)
		return
	}
	fmt.Fprintf(c.W, "%s: %v\n", stat.Name, stat.Value)
}

// Logger routes everything through slog. Stats are logged at debug level.
type Logger struct {
	L *slog.Logger
}

func (l *Logger) Report(level Level, msg string) {
	lv := slog.LevelInfo
	switch level {
	case LevelWarn:
		lv = slog.LevelWarn
	case LevelError:
		lv = slog.LevelError
	}
	l.L.Log(context.Background(), lv, msg)
}

func (l *Logger) Emit(stat Stat) {
	l.L.Debug("stat", "name", stat.Name, "subject", stat.Subject, "value", stat.Value)
}

// Discard drops everything.
type Discard struct{}

func (Discard) Report(Level, string) {}
func (Discard) Emit(Stat)            {}

// Multi fans out to several sinks in order.
type Multi []Sink

func (m Multi) Report(level Level, msg string) {
	for _, s := range m {
		s.Report(level, msg)
	}
}

func (m Multi) Emit(stat Stat) {
	for _, s := range m {
		s.Emit(stat)
	}
}

// Message is a recorded diagnostic.
type Message struct {
	Level Level
	Text  string
}

// Recorder captures sink calls, mostly for tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
	Stats    []Stat
}

func (r *Recorder) Report(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Level: level, Text: msg})
}

func (r *Recorder) Emit(stat Stat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stats = append(r.Stats, stat)
}

// Warnings returns the text of recorded warnings.
func (r *Recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.Messages {
		if m.Level == LevelWarn {
			out = append(out, m.Text)
		}
	}
	return out
}

// HasMessage reports whether any recorded message contains substr.
func (r *Recorder) HasMessage(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Messages {
		if strings.Contains(m.Text, substr) {
			return true
		}
	}
	return false
}

// Stat returns the first recorded stat with the given name and subject.
func (r *Recorder) Stat(name, subject string) (Stat, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Stats {
		if s.Name == name && s.Subject == subject {
			return s, true
		}
	}
	return Stat{}, false
}
