package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Handler writes one line per record: time, level, message, then key=value
// pairs. Colors are enabled only when the writer supports them.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string // Dotted group path applied to keys

	colored    bool
	timeColor  *color.Color
	levelColor map[slog.Level]*color.Color
	keyColor   *color.Color
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler creates a text handler writing to out.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	h := &Handler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}
	if SupportsColor(out) {
		h.enableColor()
	}
	return h
}

func (h *Handler) enableColor() {
	h.colored = true
	h.timeColor = color.New(color.FgHiBlack)
	h.keyColor = color.New(color.FgCyan)
	h.levelColor = map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.FgMagenta),
		slog.LevelInfo:  color.New(color.FgGreen),
		slog.LevelWarn:  color.New(color.FgYellow),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	}
}

// Enabled reports whether records at level are written.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats r into a single line.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.paint(h.timeColor, r.Time.Format(time.TimeOnly)))
		buf.WriteByte(' ')
	}

	fmt.Fprintf(&buf, "%-5s %s", h.paint(h.colorFor(r.Level), r.Level.String()), r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *Handler) colorFor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return h.levelColor[slog.LevelError]
	case level >= slog.LevelWarn:
		return h.levelColor[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return h.levelColor[slog.LevelInfo]
	default:
		return h.levelColor[slog.LevelDebug]
	}
}

func (h *Handler) paint(c *color.Color, s string) string {
	if !h.colored || c == nil {
		return s
	}
	return c.Sprint(s)
}

func (h *Handler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := prefix + a.Key
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, key+".", ga)
		}
		return
	}

	value := a.Value.String()
	if strings.ContainsAny(value, " \t\n\"=") {
		value = fmt.Sprintf("%q", value)
	}
	fmt.Fprintf(buf, " %s=%s", h.paint(h.keyColor, key), value)
}

// WithAttrs returns a handler that prepends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	newH := *h
	newH.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newH.attrs = append(newH.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		newH.attrs = append(newH.attrs, a)
	}
	return &newH
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.prefix = h.prefix + name + "."
	return &newH
}
