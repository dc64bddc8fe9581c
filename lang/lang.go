package lang

import (
	"context"
	"errors"
	"sync"
)

// Language bundles a lexicon and grammar with a cache of compiled programs.
//
// A Language is safe for concurrent use. Each run builds its own lexer,
// parser and interpreter, so runs share nothing but the cache and the
// (read-only) lexicon and grammar.
type Language struct {
	lexicon *Lexicon
	grammar *Grammar
	cache   *sync.Map
	opts    options
}

var defaultLanguage = sync.OnceValue(func() *Language {
	l, err := New(DefaultLexicon(), DefaultGrammar())
	if err != nil {
		panic(err)
	}

	return l
})

// Default returns the shared language built from [DefaultLexicon] and
// [DefaultGrammar].
func Default() *Language { return defaultLanguage() }

// New returns a language with the given lexicon and grammar. Both are
// validated, and they must not be modified afterwards.
func New(lexicon *Lexicon, grammar *Grammar, opts ...Option) (*Language, error) {
	if err := errors.Join(lexicon.Validate(), grammar.Validate(lexicon)); err != nil {
		return nil, err
	}

	return &Language{
		lexicon: lexicon,
		grammar: grammar,
		cache:   new(sync.Map),
		opts:    apply(options{}, opts...),
	}, nil
}

// Lexicon returns the language's token rules.
func (l *Language) Lexicon() *Lexicon { return l.lexicon }

// Grammar returns the language's grammar.
func (l *Language) Grammar() *Grammar { return l.grammar }

// With returns a language sharing l's lexicon, grammar and cache whose runs
// use the given options in addition to l's.
func (l *Language) With(opts ...Option) *Language {
	return &Language{
		lexicon: l.lexicon,
		grammar: l.grammar,
		cache:   l.cache,
		opts:    apply(l.opts, opts...),
	}
}

// Lexer returns a lexer over text.
func (l *Language) Lexer(text string, opts ...Option) *Lexer {
	return newLexer(l.lexicon, text, apply(l.opts, opts...))
}

// Check parses text without evaluating it and returns the root block.
func (l *Language) Check(_ context.Context, text string) (*Node, error) {
	return NewParser(l.grammar, l.Lexer(text)).Parse()
}

// Run parses and evaluates text against vars. A nil vars starts from an
// empty environment; otherwise vars is modified in place.
func (l *Language) Run(
	ctx context.Context,
	text string,
	vars map[string]any,
	opts ...Option,
) (Result, error) {
	parser := NewParser(l.grammar, l.Lexer(text))

	return newInterpreter(parser, apply(parser.opts, opts...)).Run(ctx, vars)
}

// Program is a parsed script that can be evaluated repeatedly.
type Program struct {
	lang *Language
	root *Node
	text string
}

// Root returns the program's syntax tree.
func (p *Program) Root() *Node { return p.root }

// Text returns the program's source text.
func (p *Program) Text() string { return p.text }

// Run evaluates the program against vars. A nil vars starts from an empty
// environment; otherwise vars is modified in place.
func (p *Program) Run(
	ctx context.Context,
	vars map[string]any,
	opts ...Option,
) (Result, error) {
	parser := NewParser(p.lang.grammar, p.lang.Lexer(p.text))

	return newInterpreter(parser, apply(parser.opts, opts...)).
		Evaluate(ctx, p.root, vars)
}
