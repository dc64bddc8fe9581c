package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrLex          = NewError("lex error")
	ErrParse        = NewError("parse error")
	ErrInterpret    = NewError("interpret error")
	ErrNoEvaluator  = NewError("no evaluator for node kind")
	ErrInvalidRule  = NewError("invalid lexicon rule")
	ErrInvalidTable = NewError("invalid grammar")
	ErrReadInput    = NewError("failed to read input")
	ErrMaxDepth     = NewError("maximum nesting depth exceeded")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel as e. Errors derived from a
// sentinel with [Error.Wrap] or [Error.With] share its message and match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil || t.msg == "" {
		return false
	}

	return e.msg == t.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// defect derives an error from sentinel that names reason and attrs in its
// message as well as in its log attributes.
func defect(sentinel *Error, reason string, attrs ...slog.Attr) *Error {
	detail := make([]string, 0, len(attrs))
	for _, a := range attrs {
		detail = append(detail, a.String())
	}

	msg := reason
	if len(detail) > 0 {
		msg += " (" + strings.Join(detail, ", ") + ")"
	}

	attrs = append(attrs[:len(attrs):len(attrs)], slog.String("reason", reason))

	return sentinel.With(attrs...).Wrap(errors.New(msg))
}

// LexError reports text that no lexicon rule accepts.
type LexError struct {
	Message string
	Literal string // offending character or scanned literal
	Offset  int    // byte offset of the offending token
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return ErrLex.msg + ": " + e.Message + " at offset " + strconv.Itoa(e.Offset)
}

// Unwrap returns [ErrLex].
func (e *LexError) Unwrap() error { return ErrLex }

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrLex.msg),
		slog.String("message", e.Message),
		slog.String("literal", e.Literal),
		slog.Int("offset", e.Offset),
	)
}

// Expectation describes the token a grammar production required.
// Value is empty when any literal of Type is acceptable.
type Expectation struct {
	Type  string
	Value string
}

// String returns the expectation formatted as `type "value"`.
func (x Expectation) String() string {
	if x.Value == "" {
		return x.Type
	}

	return x.Type + " " + strconv.Quote(x.Value)
}

// ParseError reports a token stream that does not satisfy the grammar.
type ParseError struct {
	Message  string
	Token    *Token       // nil at end of input
	Expected *Expectation // nil when no single token was expected
	Source   string       // optional source text for snippets
	err      error
}

// Error implements the error interface. When Source is set, the message is
// followed by the offending line and a caret under the token.
func (e *ParseError) Error() string {
	var b strings.Builder

	b.WriteString(ErrParse.msg)
	b.WriteString(": ")
	b.WriteString(e.Message)

	if e.Token == nil {
		b.WriteString(" at end of input")
	} else {
		b.WriteString(", got ")
		b.WriteString(e.Token.Type)
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(e.Token.Value))
	}

	if e.Source != "" && e.Token != nil {
		b.WriteString(snippet(e.Source, e.Token.Start))
	}

	return b.String()
}

// Unwrap returns [ErrParse] and the underlying cause, if any.
func (e *ParseError) Unwrap() []error {
	if e.err == nil {
		return []error{ErrParse}
	}

	return []error{ErrParse, e.err}
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", ErrParse.msg),
		slog.String("message", e.Message),
	}

	if e.Token != nil {
		attrs = append(attrs,
			slog.String("token", e.Token.Value),
			slog.Int("start", e.Token.Start),
		)
	}

	if e.Expected != nil {
		attrs = append(attrs, slog.String("expected", e.Expected.String()))
	}

	return slog.GroupValue(attrs...)
}

// InterpretError reports a valid tree that cannot be evaluated, such as a
// reference to an unknown variable.
type InterpretError struct {
	Message string
	Node    *Node
	err     error
}

// Error implements the error interface.
func (e *InterpretError) Error() string {
	msg := ErrInterpret.msg + ": " + e.Message
	if e.err != nil {
		msg += ": " + e.err.Error()
	}

	return msg
}

// Unwrap returns [ErrInterpret] and the underlying cause, if any.
func (e *InterpretError) Unwrap() []error {
	if e.err == nil {
		return []error{ErrInterpret}
	}

	return []error{ErrInterpret, e.err}
}

// LogValue implements slog.LogValuer.
func (e *InterpretError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", ErrInterpret.msg),
		slog.String("message", e.Message),
	}

	if e.Node != nil {
		attrs = append(attrs,
			slog.String("kind", e.Node.Kind.String()),
			slog.Int("start", e.Node.Start),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(attrs...)
}

func interpretError(node *Node, msg string, cause error) *InterpretError {
	return &InterpretError{Message: msg, Node: node, err: cause}
}

// snippet renders the source line containing offset with a caret beneath the
// offending column.
func snippet(source string, offset int) string {
	if offset < 0 || offset > len(source) {
		return ""
	}

	lineStart := strings.LastIndexByte(source[:offset], '\n') + 1

	lineEnd := strings.IndexByte(source[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(source)
	} else {
		lineEnd += offset
	}

	line := strings.Count(source[:offset], "\n") + 1
	col := len([]rune(source[lineStart:offset])) + 1
	num := strconv.Itoa(line)

	var b strings.Builder

	b.WriteString(" (line ")
	b.WriteString(num)
	b.WriteString(", column ")
	b.WriteString(strconv.Itoa(col))
	b.WriteString(")\n  ")
	b.WriteString(num)
	b.WriteString(" | ")
	b.WriteString(source[lineStart:lineEnd])
	b.WriteByte('\n')
	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	b.WriteString(strings.Repeat(" ", len(num)+5+col-1))
	b.WriteByte('^')

	return b.String()
}
