package lang

import (
	"golang.org/x/text/language"

	"github.com/ardnew/lala/log"
)

// DefaultMaxDepth is the default limit on nested parser routines, which
// bounds how deeply parentheses, blocks and statements may nest.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 1000

// Option applies a configuration option to options.
type Option func(options) options

// options holds the collaborators shared by the lexer, parser and
// interpreter. The zero value is usable: it logs nothing and falls back to
// the defaults below when a run begins.
type options struct {
	logger    log.Logger
	clock     Clock
	natives   Natives
	formatter Formatter
	callback  func(string)
	tag       language.Tag
	maxDepth  int
}

// apply applies multiple options to o.
func apply(o options, opts ...Option) options {
	for _, opt := range opts {
		if opt != nil {
			o = opt(o)
		}
	}

	return o
}

// withDefaults fills every unset collaborator with its default.
func (o options) withDefaults() options {
	if o.clock == nil {
		o.clock = SystemClock{}
	}

	if o.natives == nil {
		o.natives = DefaultNatives(o.clock)
	}

	if o.formatter == nil {
		o.formatter = Sprintf{}
	}

	if o.tag == language.Und {
		o.tag = language.English
	}

	return o
}

// maxDepthOrDefault returns the configured nesting limit, or
// [DefaultMaxDepth] if none is set.
func (o options) maxDepthOrDefault() int {
	if o.maxDepth <= 0 {
		return DefaultMaxDepth
	}

	return o.maxDepth
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
func WithMaxDepth(depth int) Option {
	return func(o options) options {
		o.maxDepth = depth

		return o
	}
}

// WithLogger sets the logger that receives trace events from each stage.
func WithLogger(l log.Logger) Option {
	return func(o options) options {
		o.logger = l

		return o
	}
}

// WithClock sets the time source used by the default native functions.
func WithClock(c Clock) Option {
	return func(o options) options {
		o.clock = c

		return o
	}
}

// WithNatives replaces the native function table.
func WithNatives(n Natives) Option {
	return func(o options) options {
		o.natives = n

		return o
	}
}

// WithFormatter sets the formatter used by format statements.
func WithFormatter(f Formatter) Option {
	return func(o options) options {
		o.formatter = f

		return o
	}
}

// WithCallback sets the function invoked by call statements such as hide()
// and show(). The keyword is passed as the argument.
func WithCallback(fn func(string)) Option {
	return func(o options) options {
		o.callback = fn

		return o
	}
}

// WithLanguageTag sets the language used for upper and lower case mapping.
func WithLanguageTag(tag language.Tag) Option {
	return func(o options) options {
		o.tag = tag

		return o
	}
}
