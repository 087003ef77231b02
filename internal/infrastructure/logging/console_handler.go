package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

const systemKey = "system"

// ConsoleHandler is a slog.Handler for humans reading a terminal:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value key=value
//
// Groups are flattened into dotted keys (group.key=value).
type ConsoleHandler struct {
	w         io.Writer
	mu        *sync.Mutex
	level     slog.Leveler
	system    string
	prefix    string // dotted group path, with trailing dot
	preformat string // attrs from WithAttrs, already rendered
	useColors bool
}

// NewConsoleHandler creates a console handler; colors are enabled only when w is a terminal
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{
		w:         w,
		mu:        &sync.Mutex{},
		level:     slog.LevelInfo,
		useColors: isTerminal(w),
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle renders a record as one line
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)

	buf = h.colored(buf, levelColor(r.Level), "["+levelString(r.Level)+"]")

	system := h.system
	var attrs []byte
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == systemKey && h.prefix == "" {
			system = a.Value.String()
			return true
		}
		attrs = appendAttr(attrs, h.prefix, a)
		return true
	})

	if system != "" {
		buf = append(buf, " ["...)
		buf = append(buf, system...)
		buf = append(buf, ']')
	}

	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	buf = append(buf, ' ')
	buf = h.colored(buf, colorGray, "["+t.Format("15:04:05")+"]")

	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.preformat...)
	buf = append(buf, attrs...)
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns a handler that prints attrs on every record
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	pre := []byte(h.preformat)
	for _, a := range attrs {
		if a.Key == systemKey && h.prefix == "" {
			clone.system = a.Value.String()
			continue
		}
		pre = appendAttr(pre, h.prefix, a)
	}
	clone.preformat = string(pre)
	return &clone
}

// WithGroup returns a handler that qualifies subsequent keys with name
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *ConsoleHandler) colored(buf []byte, color, s string) []byte {
	if !h.useColors {
		return append(buf, s...)
	}
	buf = append(buf, color...)
	buf = append(buf, s...)
	return append(buf, colorReset...)
}

func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		nested := prefix
		if a.Key != "" {
			nested = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, nested, ga)
		}
		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	var s string
	switch a.Value.Kind() {
	case slog.KindTime:
		s = a.Value.Time().Format(time.RFC3339)
	default:
		s = a.Value.String()
	}
	if needsQuoting(s) {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\n\"=")
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorCyan
	default:
		return colorGray
	}
}

func levelString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return level.String()
	}
}
