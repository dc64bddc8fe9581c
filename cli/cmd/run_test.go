package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lala/lang"
)

func TestRunRun(t *testing.T) {
	tests := []struct {
		name string
		run  Run
		want string
	}{
		{
			name: "text",
			run: Run{
				Expr: `x = base + 2; name = "a"`,
				Var:  map[string]string{"base": "5"},
			},
			want: "a\nbase = 5\nname = \"a\"\nx = 7\n",
		},
		{
			name: "text_calls",
			run:  Run{Expr: "hide(); show(); 1"},
			want: "1\nhide()\nshow()\n",
		},
		{
			name: "text_nil_result",
			run:  Run{Expr: "if (false) { 1 }"},
			want: "\n",
		},
		{
			name: "quiet_text",
			run:  Run{Expr: `x = "a" + 1`, Quiet: true},
			want: "a1\n",
		},
		{
			name: "quiet_json",
			run:  Run{Expr: `x = "a" + 1`, Quiet: true, Output: OutputJSON},
			want: "\"a1\"\n",
		},
		{
			name: "json",
			run:  Run{Expr: "hide(); x = 2.5", Output: OutputJSON, Indent: 0},
			want: `{"returnValue":2.5,"variables":{"x":2.5},"calls":["hide"]}` + "\n",
		},
		{
			name: "json_without_calls",
			run:  Run{Expr: "x = 2.5", Output: OutputJSON, Indent: 0},
			want: `{"returnValue":2.5,"variables":{"x":2.5}}` + "\n",
		},
		{
			name: "json_non_finite",
			run:  Run{Expr: "a = 1 / 0; b = -1 / 0; c = 0 / 0", Output: OutputJSON},
			want: `{"returnValue":"NaN","variables":{"a":"Infinity","b":"-Infinity","c":"NaN"}}` + "\n",
		},
		{
			name: "quiet_json_infinity",
			run:  Run{Expr: "1 / 0", Quiet: true, Output: OutputJSON},
			want: "\"Infinity\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout, _ := newTestContext(t, nil)

			r := tt.run
			if r.Output == "" {
				r.Output = OutputText
			}

			if err := r.Run(ctx); err != nil {
				t.Fatal(err)
			}

			if got := stdout.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunRunYAML(t *testing.T) {
	ctx, stdout, _ := newTestContext(t, nil)

	r := Run{Expr: `show(); s = "v"`, Output: OutputYAML, Indent: 2}
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"returnValue: v", "variables:", "s: v", "calls:", "show"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRunRunScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "double"+ScriptExt, "n * 2")
	vars := writeFile(t, dir, "vars.yaml", "n: 21\n")

	ctx, stdout, _ := newTestContext(t, nil)
	ctx = WithSearchPath(ctx, []string{dir})

	r := Run{Script: "double", Vars: []string{vars}, Output: OutputText, Quiet: true}
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := stdout.String(); got != "42\n" {
		t.Errorf("got %q, want %q", got, "42\n")
	}
}

func TestRunRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		run     Run
		wantErr error
	}{
		{name: "parse", run: Run{Expr: "1 +"}, wantErr: lang.ErrParse},
		{name: "lex", run: Run{Expr: "a @ b"}, wantErr: lang.ErrLex},
		{name: "undefined", run: Run{Expr: "missing"}, wantErr: lang.ErrInterpret},
		{name: "assignment", run: Run{Expr: "1", Var: map[string]string{"a.": "1"}}, wantErr: ErrVarAssign},
		{name: "script", run: Run{Script: "no-such-script"}, wantErr: ErrScriptNotFound},
		{name: "watch_expr", run: Run{Expr: "1", Watch: true}, wantErr: ErrWatchSource},
		{name: "watch_stdin", run: Run{Script: "-", Watch: true}, wantErr: ErrWatchSource},
	}

	// reading stdin must not block
	null, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatal(err)
	}
	defer null.Close()

	stdin := os.Stdin
	os.Stdin = null

	defer func() { os.Stdin = stdin }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, _ := newTestContext(t, nil)

			r := tt.run
			r.Output = OutputText

			if err := r.Run(ctx); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestRunWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "watched"+ScriptExt, `"first"`)

	var out syncBuffer

	var cli struct{}

	parser, err := kong.New(&cli, kong.Writers(&out, &out))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(WithContext(t.Context(), ktx))
	defer cancel()

	done := make(chan error, 1)

	go func() {
		r := Run{Script: path, Watch: true, Output: OutputText, Quiet: true}
		done <- r.Run(ctx)
	}()

	waitFor := func(want string) {
		t.Helper()

		deadline := time.Now().Add(5 * time.Second)
		for !strings.Contains(out.String(), want) {
			if time.Now().After(deadline) {
				t.Fatalf("timed out waiting for %q; output:\n%s", want, out.String())
			}

			time.Sleep(10 * time.Millisecond)
		}
	}

	waitFor("first\n")

	if err := os.WriteFile(path, []byte(`"second"`), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor("second\n")

	if err := os.WriteFile(path, []byte("1 +"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor(lang.ErrParse.Error())

	// changes to other files in the directory are ignored
	writeFile(t, dir, "other"+ScriptExt, `"other"`)
	time.Sleep(100 * time.Millisecond)

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	if strings.Contains(out.String(), "other") {
		t.Errorf("unrelated file triggered a run:\n%s", out.String())
	}
}
