package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/sanity-io/litter"

	"github.com/ardnew/lala/lang"
	"github.com/ardnew/lala/log"
)

// Check formats for printing the syntax tree of each script.
const (
	CheckNone   = "none"
	CheckAST    = "ast"
	CheckJSON   = "json"
	CheckYAML   = "yaml"
	CheckDump   = "dump"
	CheckSource = "source"
)

// Check parses scripts without running them. Every script is checked, and
// all errors are reported together.
type Check struct {
	Format string `help:"Print each syntax tree as: ${enum}" default:"none" enum:"none,ast,json,yaml,dump,source" short:"f"`
	Indent int    `help:"Indent width for printed trees"     default:"2"    short:"i"`

	Scripts []string `arg:"" default:"-" help:"Script files, script names on the search path, or '-' for stdin" optional:""`
}

// dumper prints trees for the dump format. Zero-valued fields are omitted
// to keep the output close to the tree's shape.
var dumper = litter.Options{
	HidePrivateFields: true,
	HideZeroValues:    true,
	StripPackageNames: true,
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var errs *multierror.Error

	w := stdoutFrom(ctx)
	scripts := uniqueSources(c.Scripts)

	for _, name := range scripts {
		root, path, err := c.check(ctx, name)
		if err != nil {
			log.DebugContext(ctx, "check failed",
				slog.String("script", name),
				slog.Any("error", err),
			)

			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, err))

			continue
		}

		if len(scripts) > 1 && c.Format != CheckNone {
			fmt.Fprintf(w, "# %s\n", path)
		}

		if err := c.print(ctx, w, root); err != nil {
			return err
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return ErrCheck.With(slog.Int("failed", errs.Len())).Wrap(err)
	}

	return nil
}

func (c *Check) check(ctx context.Context, name string) (*lang.Node, string, error) {
	text, path, err := readScript(ctx, name, os.Stdin)
	if err != nil {
		return nil, path, err
	}

	root, err := languageFrom(ctx).Check(ctx, text)

	return root, path, err
}

func (c *Check) print(ctx context.Context, w io.Writer, root *lang.Node) error {
	switch c.Format {
	case CheckAST:
		root.PrintIndent(ctx, w, c.Indent)

		return nil

	case CheckJSON:
		return root.WriteJSON(ctx, w, c.Indent)

	case CheckYAML:
		return root.WriteYAML(ctx, w, c.Indent)

	case CheckDump:
		_, err := fmt.Fprintln(w, dumper.Sdump(root))

		return err

	case CheckSource:
		return root.WriteSource(ctx, w, c.Indent)

	default:
		return nil
	}
}
