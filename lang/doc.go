// Package lang implements lala, a small embeddable language for conditional
// and templating scripts evaluated against a host-supplied variable
// environment.
//
// # Pipeline
//
// A script flows through three components, each driven by declarative data:
//
//   - [Lexer] turns text into [Token] values on demand, following the ordered
//     rules of a [Lexicon].
//   - [Parser] pulls tokens one at a time and builds a tree of [Node] values,
//     following the operator table and keyword-led [Statement] rules of a
//     [Grammar].
//   - [Interpreter] walks the tree, reading and assigning variables in an
//     [Environment], and returns the value of the last statement.
//
// The [Language] type bundles a lexicon and grammar with a compiled-program
// cache and is the usual entry point:
//
//	res, err := lang.Default().Run(ctx, `if (n > 1) { s = "items" } else { s = "item" }`,
//		map[string]any{"n": 3})
//	// res.Variables["s"] == "items"
//
// # Syntax
//
// The default language recognizes numbers, double-quoted strings, the
// identifiers true and false, dot-separated variable paths, parentheses and
// braces, and the operators
//
//	*  /  +  -  ==  !=  <=  >=  <  >  =~  &&  ||  =
//
// listed from tightest to loosest binding. Keyword-led statements are
//
//	if (test) consequence [else alternate]
//	upper(x)  lower(x)  snake(x)  camel(x)  kebab(x)
//	format(template, x)
//	now()  day()  month()  year()
//	hide()  show()
//
// Statements are separated by whitespace, newlines or semicolons.
//
// # Grammar as data
//
// Operator precedence is the order of [Grammar.Operators], optionally grouped
// into tiers by [Operator.Level]. New keyword-led statements are added by
// appending a [Statement] whose [Step] list names literal tokens to consume and
// sub-parses to store into fields of the node being built; the engine itself
// does not change.
//
// # Errors
//
// Lexing, parsing and evaluation fail with [*LexError], [*ParseError] and
// [*InterpretError] respectively; each wraps one of the sentinels [ErrLex],
// [ErrParse] and [ErrInterpret] and implements [slog.LogValuer]. A node kind
// without an evaluation rule yields [ErrNoEvaluator], which indicates a
// grammar that produces kinds the interpreter does not know.
package lang
