package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ardnew/lala/lang"
)

// Tokens prints the token stream of a script.
type Tokens struct {
	Expr   string `help:"Scan TEXT instead of a script" placeholder:"TEXT" short:"e"`
	Output string `help:"Output format"                  default:"text"    enum:"text,json,yaml" short:"o"`
	Indent int    `help:"Indent width for JSON and YAML output" default:"2"`

	Script string `arg:"" default:"-" help:"Script file, script name on the search path, or '-' for stdin" optional:""`
}

// Run executes the tokens command. Tokens scanned before a lexical error
// are printed before the error is returned.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text := t.Expr
	if text == "" {
		if text, _, err = readScript(ctx, t.Script, os.Stdin); err != nil {
			return err
		}
	}

	toks, lexErr := languageFrom(ctx).Lexer(text).AllTokens()

	return t.write(ctx, toks, lexErr)
}

func (t *Tokens) write(ctx context.Context, toks []lang.Token, lexErr error) error {
	w := stdoutFrom(ctx)

	if t.Output != OutputText {
		if err := writeValue(w, t.Output, toks, t.Indent); err != nil {
			return err
		}

		return lexErr
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, tok := range toks {
		fmt.Fprintf(tw, "%d:%d\t%s\t%q\n", tok.Start, tok.End, tok.Type, tok.Value)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	return lexErr
}
