package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty record. Styles are bound to the
// renderer of the handler's output, so they render plain text when the
// output is not a color terminal.
type palette struct {
	key, text, number, yes, no, time, msg, source lipgloss.Style
	level                                         map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	color := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:    color("8"),
		text:   color("6"),
		number: color("3"),
		yes:    color("2"),
		no:     color("1"),
		time:   color("8"),
		msg:    r.NewStyle().Bold(true),
		source: color("5"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): color("4"),
			slog.LevelDebug:        color("4"),
			slog.LevelInfo:         color("2"),
			slog.LevelWarn:         color("3"),
			slog.LevelError:        color("1"),
		},
	}
}

func (p palette) forLevel(l slog.Level) lipgloss.Style {
	for _, at := range []slog.Level{
		slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug,
	} {
		if l >= at {
			return p.level[at]
		}
	}

	return p.level[slog.Level(LevelTrace)]
}

// prettyHandler writes one styled line per record:
//
//	<time> <LEVEL> <source> <message> key=value ...
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  palette
	group  string // dotted prefix applied to attribute keys
	preset []byte // attributes added with WithAttrs, already rendered
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(w),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			h.field(&buf, h.style.time.Render(stringValue(a.Value)))
		}
	}

	if a := h.replace(slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		h.field(&buf, h.style.forLevel(r.Level).Render(stringValue(a.Value)))
	}

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			h.field(&buf, h.style.source.Render(
				frame.File+":"+strconv.Itoa(frame.Line)))
		}
	}

	h.field(&buf, h.style.msg.Render(r.Message))

	if len(h.preset) > 0 {
		buf.WriteByte(' ')
		buf.Write(h.preset)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.attr(&buf, h.group, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	h2 := *h

	buf := bytes.NewBuffer(bytes.Clone(h.preset))
	for _, a := range attrs {
		h2.attr(buf, h.group, a)
	}

	h2.preset = buf.Bytes()

	return &h2
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	h2 := *h
	h2.group = h.group + name + "."

	return &h2
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) field(buf *bytes.Buffer, s string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(s)
}

// attr writes a as key=value, flattening groups into dotted keys.
func (h *prettyHandler) attr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.attr(buf, prefix, g)
		}

		return
	}

	if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte{' '}) {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.style.key.Render(prefix + a.Key))
	buf.WriteByte('=')
	buf.WriteString(h.value(a.Value))
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return h.style.number.Render(stringValue(v))
	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")
	case slog.KindTime:
		return h.style.time.Render(v.Time().Format(time.RFC3339))
	default:
		return h.style.text.Render(quote(stringValue(v)))
	}
}

func stringValue(v slog.Value) string {
	if v.Kind() == slog.KindFloat64 {
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	}

	return v.String()
}

// quote returns s, quoted only when it would otherwise be ambiguous.
func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}

	return s
}
