package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/lala/lang"
	"github.com/ardnew/lala/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-run-retry loop. It
// writes the session script to a temporary file, opens the user's editor,
// and runs the result against the session's initial variables. When the
// script fails the user is asked to edit again; declining exits the REPL.
type editCommand struct {
	ctxFunc  func() context.Context
	language *lang.Language
	logger   log.Logger
	initial  map[string]any
	script   string

	// set by Run when the edited script ran
	result *lang.Result

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file cancels the edit, leaving
// result nil.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "lala-repl-*.lala")
	if err != nil {
		return err
	}

	path := f.Name()
	f.Close()

	defer os.Remove(path)

	content := c.script

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		res, runErr := c.language.Run(ctx, content,
			lang.NewEnvironment(c.initial).Clone().Map())

		c.logger.TraceContext(ctx, "editor run attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", runErr == nil),
		)

		if runErr == nil {
			c.script = content
			c.result = &res

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", runErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR, or vi, on path and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
