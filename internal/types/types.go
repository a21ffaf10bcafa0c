// Package types provides internal types shared across svmodel packages.
package types

import (
	"context"
	"log/slog"
	"sort"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, declarators, connections).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

// ctx is a package-level context for logging.
var ctx = context.Background()

// Logger wraps slog.Logger with nil-safe helpers.
type Logger struct {
	L *slog.Logger
}

// Enabled returns true if logging is enabled at the given level.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.L != nil && l.L.Enabled(ctx, level)
}

// Log emits a log message if logging is enabled.
func (l *Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.L != nil && l.L.Enabled(ctx, level) {
		l.L.LogAttrs(ctx, level, msg, attrs...)
	}
}

// TraceEnabled returns true if trace-level logging is enabled.
func (l *Logger) TraceEnabled() bool {
	return l.Enabled(LevelTrace)
}

// Trace emits a trace-level log.
func (l *Logger) Trace(msg string, attrs ...slog.Attr) {
	l.Log(LevelTrace, msg, attrs...)
}

// Component returns a child logger tagged with the component name,
// or nil when logging is disabled.
func Component(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

// ByteOffset is a byte position in source text.
type ByteOffset uint32

// Span represents a range in source text.
type Span struct {
	Start ByteOffset // inclusive
	End   ByteOffset // exclusive
}

// Synthetic is a span for generated constructs.
var Synthetic = Span{Start: 0, End: 0}

// NewSpan creates a new span.
func NewSpan(start, end ByteOffset) Span {
	return Span{Start: start, End: end}
}

// Len returns the length of the span in bytes.
func (s Span) Len() ByteOffset {
	return s.End - s.Start
}

// IsEmpty returns true if the span is empty.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// IsSynthetic returns true if this is a synthetic span.
func (s Span) IsSynthetic() bool {
	return s.Start == 0 && s.End == 0
}

// Cover returns the smallest span containing both s and o.
func (s Span) Cover(o Span) Span {
	return Span{Start: min(s.Start, o.Start), End: max(s.End, o.End)}
}

// Text returns the source text covered by the span, clamped to source.
func (s Span) Text(source []byte) string {
	start, end := int(s.Start), int(s.End)
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		return ""
	}
	return string(source[start:end])
}

// LineTable maps byte offsets to 1-based line numbers.
// Entry i holds the byte offset where line i+1 begins.
type LineTable []int

// BuildLineTable scans source for line starts.
func BuildLineTable(source []byte) LineTable {
	table := LineTable{0}
	for i, b := range source {
		if b == '\n' {
			table = append(table, i+1)
		}
	}
	return table
}

// Position returns the 1-based line and column of offset.
func (t LineTable) Position(offset ByteOffset) (line, col int) {
	if len(t) == 0 {
		return 0, 0
	}
	idx := sort.Search(len(t), func(i int) bool { return t[i] > int(offset) }) - 1
	if idx < 0 {
		idx = 0
	}
	return idx + 1, int(offset) - t[idx] + 1
}
