package lang

import (
	"log/slog"
	"strconv"
)

// Token is a typed lexeme cut from source text.
//
// Start is the byte offset of the first byte of the lexeme and End the byte
// offset one past its last byte, so text[Start:End] is the raw lexeme
// (including delimiters for quoted strings).
type Token struct {
	Type  string
	Value string
	Start int
	End   int
}

// Is reports whether t has the given type and, if value is non-empty, the
// given value.
func (t Token) Is(typ, value string) bool {
	return t.Type == typ && (value == "" || t.Value == value)
}

// String returns the token as `type "value" [start:end]`.
func (t Token) String() string {
	return t.Type + " " + strconv.Quote(t.Value) +
		" [" + strconv.Itoa(t.Start) + ":" + strconv.Itoa(t.End) + "]"
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", t.Type),
		slog.String("value", t.Value),
		slog.Int("start", t.Start),
		slog.Int("end", t.End),
	)
}
