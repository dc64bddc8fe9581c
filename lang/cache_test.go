package lang

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

func TestLanguage_Compile(t *testing.T) {
	l, err := New(DefaultLexicon(), DefaultGrammar())
	if err != nil {
		t.Fatal(err)
	}

	first, err := l.Compile(t.Context(), "x = x + 1")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	second, err := l.Compile(t.Context(), "x = x + 1")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if first.Root() != second.Root() {
		t.Error("identical source compiled twice")
	}

	if first.Text() != "x = x + 1" {
		t.Errorf("Text() = %q", first.Text())
	}

	vars := map[string]any{"x": 1}

	for range 3 {
		if _, err := first.Run(t.Context(), vars); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	if vars["x"] != 4.0 {
		t.Errorf("x = %v, want 4", vars["x"])
	}

	l.ClearCache()

	third, err := l.Compile(t.Context(), "x = x + 1")
	if err != nil {
		t.Fatal(err)
	}

	if third.Root() == first.Root() {
		t.Error("cache was not cleared")
	}
}

func TestLanguage_CompileCachesErrors(t *testing.T) {
	l := Default().With()
	l.ClearCache()

	_, err1 := l.Compile(t.Context(), "(1 +")
	_, err2 := l.Compile(t.Context(), "(1 +")

	if !errors.Is(err1, ErrParse) {
		t.Fatalf("expected parse error, got %v", err1)
	}

	if err1 != err2 {
		t.Error("parse failure was not cached")
	}
}

func TestLanguage_CompileConcurrent(t *testing.T) {
	l, err := New(DefaultLexicon(), DefaultGrammar())
	if err != nil {
		t.Fatal(err)
	}

	const n = 16

	roots := make([]*Node, n)

	var wg sync.WaitGroup

	for i := range n {
		wg.Go(func() {
			p, err := l.Compile(t.Context(), `s = upper("a") + format("%d", 2)`)
			if err != nil {
				t.Error(err)

				return
			}

			res, err := p.Run(t.Context(), nil)
			if err != nil {
				t.Error(err)

				return
			}

			if res.ReturnValue != "A2" {
				t.Errorf("got %v", res.ReturnValue)
			}

			roots[i] = p.Root()
		})
	}

	wg.Wait()

	for i := 1; i < n; i++ {
		if roots[i] != roots[0] {
			t.Fatalf("goroutine %d compiled its own tree", i)
		}
	}
}

func TestLanguage_With(t *testing.T) {
	var shown []string

	base := Default()
	l := base.With(WithCallback(func(kw string) { shown = append(shown, kw) }))

	if l.Lexicon() != base.Lexicon() || l.Grammar() != base.Grammar() {
		t.Error("With did not share the tables")
	}

	if _, err := l.Run(t.Context(), "hide() show()", nil); err != nil {
		t.Fatal(err)
	}

	if strings.Join(shown, ",") != "hide,show" {
		t.Errorf("callbacks: %v", shown)
	}
}

func TestLanguage_Check(t *testing.T) {
	root, err := Default().Check(t.Context(), "a = 1; b")
	if err != nil {
		t.Fatal(err)
	}

	if root.Kind != Block || len(root.Nodes) != 2 {
		t.Errorf("unexpected tree %s", shape(root))
	}

	// an unknown variable is a runtime failure, not a check failure
	if _, err := Default().Check(t.Context(), "missing + 1"); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestNew_InvalidTables(t *testing.T) {
	g := DefaultGrammar()
	g.Operators = append(g.Operators, Operator{Value: "^", Result: MathExpression})

	if _, err := New(DefaultLexicon(), g); !errors.Is(err, ErrInvalidTable) {
		t.Errorf("expected ErrInvalidTable, got %v", err)
	}

	if _, err := New(&Lexicon{Rules: []Rule{{}}}, DefaultGrammar()); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("expected ErrInvalidRule, got %v", err)
	}
}

func TestReadSource(t *testing.T) {
	src, err := ReadSource(strings.NewReader("x = 1\n"))
	if err != nil {
		t.Fatal(err)
	}

	if src != "x = 1\n" {
		t.Errorf("got %q", src)
	}

	_, err = ReadSource(iotest.ErrReader(io.ErrUnexpectedEOF))
	if !errors.Is(err, ErrReadInput) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected wrapped read failure, got %v", err)
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := ErrReadInput.Wrap(cause)

	if err.Error() != "failed to read input: boom" {
		t.Errorf("Error() = %q", err.Error())
	}

	if !errors.Is(err, ErrReadInput) || errors.Is(err, ErrParse) {
		t.Error("sentinel matching is wrong")
	}

	if WrapError(err) != err {
		t.Error("WrapError rewrapped an *Error")
	}

	with := ErrNoEvaluator.With()
	if !errors.Is(with, ErrNoEvaluator) {
		t.Error("With lost the sentinel identity")
	}

	if v := err.LogValue(); len(v.Group()) != 2 {
		t.Errorf("LogValue: %v", v)
	}
}
