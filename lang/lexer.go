package lang

import (
	"io"
	"iter"
	"log/slog"
	"unicode/utf8"
)

// Lexer cuts source text into tokens on demand.
//
// A Lexer is restartable: [Lexer.Reset] rewinds it to the beginning of the
// text. It is not safe for concurrent use.
type Lexer struct {
	lexicon *Lexicon
	text    string
	opts    options
	pos     int // byte offset of the last consumed character, -1 before start
}

// NewLexer returns a lexer over text that follows the rules of lexicon.
func NewLexer(lexicon *Lexicon, text string, opts ...Option) *Lexer {
	return newLexer(lexicon, text, apply(options{}, opts...))
}

func newLexer(lexicon *Lexicon, text string, o options) *Lexer {
	return &Lexer{lexicon: lexicon, text: text, opts: o, pos: -1}
}

// Text returns the source text.
func (l *Lexer) Text() string { return l.text }

// Reset rewinds the lexer to the beginning of its text.
func (l *Lexer) Reset() { l.pos = -1 }

// NextToken returns the next token that is not of the ignore type.
// It returns [io.EOF] once the text is exhausted.
func (l *Lexer) NextToken() (Token, error) {
	ignore := l.lexicon.ignore()

	for {
		tok, err := l.token()
		if err != nil {
			return Token{}, err
		}

		if tok.Type == ignore {
			continue
		}

		l.opts.logger.Trace("token", slog.Any("token", tok))

		return tok, nil
	}
}

// AllTokens resets the lexer, collects every remaining token, and resets
// the lexer again so that it can be reused.
func (l *Lexer) AllTokens() ([]Token, error) {
	l.Reset()
	defer l.Reset()

	var toks []Token

	for tok, err := range l.Tokens() {
		if err != nil {
			return toks, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}

// Tokens returns an iterator over the tokens from the current position to
// the end of the text. Iteration stops after the first error.
func (l *Lexer) Tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.NextToken()
			if err == io.EOF {
				return
			}

			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// end reports whether no characters remain after pos.
func (l *Lexer) end() bool { return l.pos+l.width(l.pos) >= len(l.text) }

// width returns the byte length of the character at offset i, or 1 before
// the start of the text.
func (l *Lexer) width(i int) int {
	if i < 0 {
		return 1
	}

	_, n := utf8.DecodeRuneInString(l.text[i:])

	return n
}

// next advances to the following character and returns it.
func (l *Lexer) next() string {
	l.pos += l.width(l.pos)

	return l.text[l.pos : l.pos+l.width(l.pos)]
}

// peek returns the character following pos without consuming it, or the
// empty string at end of text.
func (l *Lexer) peek() string {
	if l.end() {
		return ""
	}

	i := l.pos + l.width(l.pos)

	return l.text[i : i+l.width(i)]
}

// token scans one token of any type, including the ignore type.
func (l *Lexer) token() (Token, error) {
	if l.end() {
		return Token{}, io.EOF
	}

	c := l.next()
	start := l.pos

	for _, rule := range l.lexicon.Rules {
		if rule.StartTest == nil || !rule.StartTest.MatchString(c) {
			continue
		}

		value := l.scan(rule, c)

		if !rule.accepts(value) {
			return Token{}, &LexError{
				Message: "token matches " + rule.Type + " but is not a permitted value",
				Literal: value,
				Offset:  start,
			}
		}

		return Token{
			Type:  rule.Type,
			Value: value,
			Start: start,
			End:   l.pos + l.width(l.pos),
		}, nil
	}

	return Token{}, &LexError{
		Message: "unexpected character " + quoteChar(c),
		Literal: c,
		Offset:  start,
	}
}

// scan consumes the remainder of a token whose first character c has
// already been consumed, and returns the token value.
func (l *Lexer) scan(rule Rule, c string) string {
	if rule.Scanner == ScanQuoted {
		return l.scanQuoted(c)
	}

	value := c

	if rule.Test == nil {
		return value
	}

	for p := l.peek(); p != "" && rule.Test.MatchString(p); p = l.peek() {
		value += l.next()
	}

	if rule.KeepLast && !l.end() {
		value += l.next()
	}

	return value
}

// scanQuoted consumes characters up to and including the next occurrence of
// delim. An unterminated literal runs to the end of the text.
func (l *Lexer) scanQuoted(delim string) string {
	from := l.pos + l.width(l.pos)

	for p := l.peek(); p != "" && p != delim; p = l.peek() {
		l.next()
	}

	value := l.text[from : l.pos+l.width(l.pos)]

	if !l.end() {
		l.next() // closing delimiter
	}

	return value
}

func quoteChar(c string) string {
	switch c {
	case "\n":
		return `'\n'`
	case "\t":
		return `'\t'`
	case "\r":
		return `'\r'`
	default:
		return "'" + c + "'"
	}
}
