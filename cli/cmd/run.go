package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/lala/lang"
	"github.com/ardnew/lala/log"
)

// Run evaluates a script and prints its return value and final variables.
type Run struct {
	Expr   string            `help:"Evaluate TEXT instead of a script"            placeholder:"TEXT"       short:"e"`
	Var    map[string]string `help:"Set a variable before running (repeatable)"  placeholder:"PATH=VALUE" short:"v"`
	Vars   []string          `help:"Load initial variables from YAML file(s)"    type:"existingfile"`
	Output string            `help:"Output format"                                default:"text"           enum:"text,json,yaml" short:"o"`
	Indent int               `help:"Indent width for JSON and YAML output"       default:"2"`
	Quiet  bool              `help:"Print only the return value"                  short:"q"`
	Watch  bool              `help:"Run again each time the script is written"   short:"w"`

	Script string `arg:"" default:"-" help:"Script file, script name on the search path, or '-' for stdin" optional:""`
}

// runOutput is the printed outcome of one run.
type runOutput struct {
	lang.Result `yaml:",inline"`

	Calls []string `json:"calls,omitempty" yaml:"calls,omitempty"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, path := r.Expr, ""
	if text == "" {
		if text, path, err = readScript(ctx, r.Script, os.Stdin); err != nil {
			return err
		}
	}

	if r.Watch {
		if path == "" || path == stdinSource {
			return ErrWatchSource
		}

		return r.watch(ctx, path)
	}

	return r.eval(ctx, text, stdoutFrom(ctx))
}

// eval runs text once against fresh variables and writes the outcome to w.
func (r *Run) eval(ctx context.Context, text string, w io.Writer) error {
	vars, err := loadVars(r.Vars, r.Var)
	if err != nil {
		return err
	}

	var out runOutput

	res, err := languageFrom(ctx).Run(ctx, text, vars,
		lang.WithCallback(func(action string) {
			out.Calls = append(out.Calls, action)
		}))
	if err != nil {
		return err
	}

	out.Result = res

	log.DebugContext(ctx, "run complete",
		slog.Int("variables", len(res.Variables)),
		slog.Int("calls", len(out.Calls)),
	)

	return r.write(w, out)
}

func (r *Run) write(w io.Writer, out runOutput) error {
	switch {
	case r.Quiet && r.Output == OutputText:
		_, err := fmt.Fprintln(w, lang.Stringify(out.ReturnValue))

		return err

	case r.Quiet:
		return writeValue(w, r.Output, out.ReturnValue, r.Indent)

	case r.Output == OutputText:
		if _, err := fmt.Fprintln(w, lang.Stringify(out.ReturnValue)); err != nil {
			return err
		}

		for _, call := range out.Calls {
			if _, err := fmt.Fprintf(w, "%s()\n", call); err != nil {
				return err
			}
		}

		return writeVariables(w, out.Variables)

	default:
		return writeValue(w, r.Output, out, r.Indent)
	}
}

// watch runs the script at path, then again each time it is written, until
// ctx is canceled. Failed runs are reported on standard error and do not end
// the watch.
//
// The directory is watched rather than the file so that editors which
// replace the file on save are followed.
func (r *Run) watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return ErrWatch.Wrap(err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return ErrWatch.With(slog.String("file", path)).Wrap(err)
	}

	run := func() {
		text, _, err := readScript(ctx, abs, os.Stdin)
		if err == nil {
			err = r.eval(ctx, text, stdoutFrom(ctx))
		}

		if err != nil {
			fmt.Fprintln(stderrFrom(ctx), err)
		}
	}

	log.InfoContext(ctx, "watching", slog.String("file", abs))
	run()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != abs ||
				!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			log.DebugContext(ctx, "script changed",
				slog.String("file", abs),
				slog.String("op", event.Op.String()),
			)
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				return ErrWatch.Wrap(err)
			}

			log.WarnContext(ctx, "watch overflow", slog.Any("error", err))
		}
	}
}
