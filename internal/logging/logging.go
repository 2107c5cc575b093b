// Package logging sets up the process-wide slog logger with a compact
// console format: "INFO: message key=value". Color is enabled only when
// writing to a terminal.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// New builds a logger at the given level writing to w. Unknown level
// strings fall back to info.
func New(level string, w io.Writer) *slog.Logger {
	h := &consoleHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: ParseLevel(level),
	}
	if f, ok := w.(*os.File); ok {
		h.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return slog.New(h)
}

// ParseLevel maps a config string to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type consoleHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
}

func (h *consoleHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(h.levelTag(r.Level))
	b.WriteString(": ")
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *consoleHandler) WithGroup(string) slog.Handler {
	// groups are not used anywhere in this codebase
	return h
}

func (h *consoleHandler) levelTag(l slog.Level) string {
	tag := l.String()
	if !h.color {
		return tag
	}
	switch {
	case l >= slog.LevelError:
		return "\x1b[31m" + tag + "\x1b[0m"
	case l >= slog.LevelWarn:
		return "\x1b[33m" + tag + "\x1b[0m"
	case l <= slog.LevelDebug:
		return "\x1b[2m" + tag + "\x1b[0m"
	default:
		return tag
	}
}

func writeAttr(b *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	b.WriteString(a.Key)
	b.WriteByte('=')
	v := a.Value.String()
	if strings.ContainsAny(v, " \t") {
		fmt.Fprintf(b, "%q", v)
		return
	}
	b.WriteString(v)
}
