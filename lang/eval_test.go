package lang

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/kylelemons/godebug/pretty"
	"golang.org/x/text/language"
)

func run(t *testing.T, input string, vars map[string]any, opts ...Option) (Result, error) {
	t.Helper()

	parser := NewParser(DefaultGrammar(), NewLexer(DefaultLexicon(), input))

	return NewInterpreter(parser, opts...).Run(context.Background(), vars)
}

func TestInterpreter_ReturnValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		vars  map[string]any
		want  any
	}{
		{name: "empty program", input: "", want: nil},
		{name: "number", input: "42", want: 42.0},
		{name: "string", input: `"hi"`, want: "hi"},
		{name: "boolean", input: "true", want: true},
		{name: "left associative", input: "2 - 3 - 4", want: -5.0},
		{name: "precedence", input: "1 + 2 * 3", want: 7.0},
		{name: "division", input: "7 / 2", want: 3.5},
		{name: "parentheses", input: "(1 + 2) * 3", want: 9.0},
		{name: "unary minus captures term", input: "-2 + 3", want: -5.0},
		{name: "unary minus of product", input: "-2 * 3", want: -6.0},
		{name: "minus reverses string", input: `-"abc"`, want: "cba"},
		{name: "concatenation", input: `"n=" + 5`, want: "n=5"},
		{name: "concatenation right", input: `1.5 + "x"`, want: "1.5x"},
		{name: "numeric string arithmetic", input: `"6" * 2`, want: 12.0},
		{name: "equality", input: "1 == 1", want: true},
		{name: "number equals numeric string", input: `1 == "1"`, want: true},
		{name: "inequality", input: `"a" != "b"`, want: true},
		{name: "type mismatch unequal", input: `true == 1`, want: false},
		{name: "less", input: "1 < 2", want: true},
		{name: "greater equal", input: "2 >= 2", want: true},
		{name: "string order", input: `"apple" < "banana"`, want: true},
		{name: "unordered", input: `"a" < 1`, want: false},
		{name: "match", input: `"Hello World" =~ "^hello"`, want: true},
		{name: "match case folds pattern", input: `"abc" =~ "B"`, want: true},
		{name: "no match", input: `"abc" =~ "^b"`, want: false},
		{name: "and yields deciding operand", input: `"" && 1`, want: ""},
		{name: "and yields right", input: `1 && "x"`, want: "x"},
		{name: "or yields left", input: `"a" || "b"`, want: "a"},
		{name: "or yields right", input: `0 || "b"`, want: "b"},
		{name: "variable", input: "x", vars: map[string]any{"x": 3}, want: 3.0},
		{
			name:  "dot path",
			input: "a.b",
			vars:  map[string]any{"a": map[string]any{"b": "deep"}},
			want:  "deep",
		},
		{name: "assignment value", input: "x = 4", want: 4.0},
		{name: "block yields last", input: "1; 2; 3", want: 3.0},
		{name: "nested block yields last", input: "{ 1; { 2 } }", want: 2.0},
		{name: "if true", input: "if (1) { 10 } else { 20 }", want: 10.0},
		{name: "if false", input: "if (0) { 10 } else { 20 }", want: 20.0},
		{name: "if false without else", input: "if (false) { 10 }", want: nil},
		{name: "upper", input: `upper("abc")`, want: "ABC"},
		{name: "lower", input: `lower("ÀB")`, want: "àb"},
		{name: "upper of number", input: "upper(1.5)", want: "1.5"},
		{name: "snake", input: `snake("HelloWorld")`, want: "hello_world"},
		{name: "camel", input: `camel("hello_world")`, want: "helloWorld"},
		{name: "kebab", input: `kebab("Hello World")`, want: "hello-world"},
		{name: "format integer", input: `format("%d items", 3)`, want: "3 items"},
		{name: "format float", input: `format("%.2f", "2.5")`, want: "2.50"},
		{name: "format string", input: `format("<%s>", 7)`, want: "<7>"},
		{name: "format padding", input: `format("%05d", 42)`, want: "00042"},
		{name: "format no verbs", input: `format("plain", 1)`, want: "plain"},
		{name: "format escaped percent", input: `format("%d%%", 50)`, want: "50%"},
		{name: "format repeats argument", input: `format("%s-%s", "a")`, want: "a-a"},
		{name: "format percent in argument", input: `format("%s", "100%!")`, want: "100%!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := run(t, tt.input, tt.vars)
			if err != nil {
				t.Fatalf("run %q: %v", tt.input, err)
			}

			if diff := pretty.Compare(res.ReturnValue, tt.want); diff != "" {
				t.Errorf("return value (-got +want):\n%s", diff)
			}
		})
	}
}

func TestInterpreter_Variables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		vars  map[string]any
		want  map[string]any
	}{
		{
			name:  "dot path creates intermediates",
			input: "a.b.c = 5",
			vars:  map[string]any{},
			want:  map[string]any{"a": map[string]any{"b": map[string]any{"c": 5.0}}},
		},
		{
			name:  "string slot coerces new value",
			input: "name = 5",
			vars:  map[string]any{"name": "x"},
			want:  map[string]any{"name": "5"},
		},
		{
			name:  "number slot keeps number",
			input: "n = n + 1",
			vars:  map[string]any{"n": 1},
			want:  map[string]any{"n": 2.0},
		},
		{
			name:  "if selects consequence",
			input: "if (1 == 1) { a = 1 } else { a = 2 }",
			vars:  map[string]any{},
			want:  map[string]any{"a": 1.0},
		},
		{
			name:  "if selects alternate",
			input: "if (1 == 2) { a = 1 } else { a = 2 }",
			vars:  map[string]any{},
			want:  map[string]any{"a": 2.0},
		},
		{
			name:  "and short-circuits",
			input: "false && (x = 1)",
			vars:  map[string]any{},
			want:  map[string]any{},
		},
		{
			name:  "or short-circuits",
			input: "true || (x = 1)",
			vars:  map[string]any{},
			want:  map[string]any{},
		},
		{
			name:  "and evaluates right when needed",
			input: "true && (x = 1)",
			vars:  map[string]any{},
			want:  map[string]any{"x": 1.0},
		},
		{
			name:  "non-map intermediate is replaced",
			input: "a.b = 1",
			vars:  map[string]any{"a": 3},
			want:  map[string]any{"a": map[string]any{"b": 1.0}},
		},
		{
			name:  "chained assignment",
			input: "x = y = 2",
			vars:  map[string]any{},
			want:  map[string]any{"x": 2.0, "y": 2.0},
		},
		{
			name:  "nil starts empty",
			input: `greeting = "hi"`,
			vars:  nil,
			want:  map[string]any{"greeting": "hi"},
		},
		{
			name:  "pluralize",
			input: `if (n > 1) { s = format("%d items", n) } else { s = "1 item" }`,
			vars:  map[string]any{"n": 3},
			want:  map[string]any{"n": 3, "s": "3 items"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := run(t, tt.input, tt.vars)
			if err != nil {
				t.Fatalf("run %q: %v", tt.input, err)
			}

			if diff := pretty.Compare(res.Variables, tt.want); diff != "" {
				t.Errorf("variables (-got +want):\n%s", diff)
			}
		})
	}
}

func TestInterpreter_ModifiesHostMap(t *testing.T) {
	vars := map[string]any{"a": 1}

	if _, err := run(t, "b = a + 1", vars); err != nil {
		t.Fatal(err)
	}

	if vars["b"] != 2.0 {
		t.Errorf("host map not updated: %v", vars)
	}
}

func TestInterpreter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		vars    map[string]any
		message string
	}{
		{name: "unknown identifier", input: "missing", message: "Unknown identifier: missing"},
		{name: "unknown nested path", input: "a.b", vars: map[string]any{"a": 1}, message: "Unknown identifier: a.b"},
		{name: "bad operands", input: `"x" - 1`, message: "Invalid operands for -"},
		{name: "invalid pattern", input: `"a" =~ "("`, message: "Invalid pattern"},
		{name: "negate map", input: "-m", vars: map[string]any{"m": map[string]any{}}, message: "Cannot negate map"},
		{name: "format non-number", input: `format("%d", "x")`, message: "format failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input, tt.vars)

			var ie *InterpretError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *InterpretError, got %v", err)
			}

			if !errors.Is(err, ErrInterpret) {
				t.Error("expected error to match ErrInterpret")
			}

			if !strings.HasPrefix(ie.Message, tt.message) {
				t.Errorf("message: got %q, want prefix %q", ie.Message, tt.message)
			}

			if ie.Node == nil {
				t.Error("expected offending node")
			}
		})
	}
}

func TestInterpreter_PartialAssignmentsRemain(t *testing.T) {
	vars := map[string]any{}

	res, err := run(t, "a = 1; b = missing; c = 3", vars)
	if !errors.Is(err, ErrInterpret) {
		t.Fatalf("expected interpret error, got %v", err)
	}

	want := map[string]any{"a": 1.0}
	if diff := pretty.Compare(res.Variables, want); diff != "" {
		t.Errorf("variables (-got +want):\n%s", diff)
	}
}

func TestInterpreter_Natives(t *testing.T) {
	at := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	clock := FixedClock(at)

	tests := []struct {
		input string
		want  any
	}{
		{input: "now()", want: float64(at.UnixMilli())},
		{input: "day()", want: "Friday"},
		{input: "month()", want: "March"},
		{input: "year()", want: 2024.0},
		{input: `if (day() == "Friday") { "weekend soon" }`, want: "weekend soon"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, err := run(t, tt.input, nil, WithClock(clock))
			if err != nil {
				t.Fatal(err)
			}

			if res.ReturnValue != tt.want {
				t.Errorf("got %v, want %v", res.ReturnValue, tt.want)
			}
		})
	}
}

func TestInterpreter_UnknownNative(t *testing.T) {
	natives := DefaultNatives(SystemClock{})
	delete(natives, "year")

	_, err := run(t, "year()", nil, WithNatives(natives))

	var ie *InterpretError
	if !errors.As(err, &ie) || ie.Message != "Unknown native function: year" {
		t.Fatalf("expected unknown native error, got %v", err)
	}
}

func TestInterpreter_CustomNative(t *testing.T) {
	natives := DefaultNatives(SystemClock{}).With("year", func(context.Context) (any, error) {
		return 1999.0, nil
	})

	res, err := run(t, "y = year() + 1", nil, WithNatives(natives))
	if err != nil {
		t.Fatal(err)
	}

	if res.ReturnValue != 2000.0 || res.Variables["y"] != 2000.0 {
		t.Errorf("got %v, variables %v", res.ReturnValue, res.Variables)
	}
}

func TestInterpreter_Callback(t *testing.T) {
	var calls []string

	res, err := run(t, `hide(); x = 1; show()`, nil, WithCallback(func(kw string) {
		calls = append(calls, kw)
	}))
	if err != nil {
		t.Fatal(err)
	}

	if diff := pretty.Compare(calls, []string{"hide", "show"}); diff != "" {
		t.Errorf("callback calls (-got +want):\n%s", diff)
	}

	if res.ReturnValue != nil {
		t.Errorf("call statement returned %v", res.ReturnValue)
	}

	// no callback configured is not an error
	if _, err := run(t, "hide()", nil); err != nil {
		t.Errorf("hide without callback: %v", err)
	}
}

func TestInterpreter_Formatter(t *testing.T) {
	f := FormatterFunc(func(template string, arg any) (string, error) {
		return template + "|" + Stringify(arg), nil
	})

	res, err := run(t, `format("t", 2)`, nil, WithFormatter(f))
	if err != nil {
		t.Fatal(err)
	}

	if res.ReturnValue != "t|2" {
		t.Errorf("got %v", res.ReturnValue)
	}
}

func TestInterpreter_LanguageTag(t *testing.T) {
	res, err := run(t, `upper("i")`, nil, WithLanguageTag(language.Turkish))
	if err != nil {
		t.Fatal(err)
	}

	if res.ReturnValue != "İ" {
		t.Errorf("got %q, want %q", res.ReturnValue, "İ")
	}
}

func TestInterpreter_NoEvaluator(t *testing.T) {
	g := DefaultGrammar()
	g.Operators = []Operator{{Value: "+", Result: Kind(99)}}

	parser := NewParser(g, NewLexer(DefaultLexicon(), "1 + 2"))

	_, err := NewInterpreter(parser).Run(context.Background(), nil)
	if !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}

	if errors.Is(err, ErrInterpret) {
		t.Error("a missing evaluator is not an interpret error")
	}
}

func TestInterpreter_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	parser := NewParser(DefaultGrammar(), NewLexer(DefaultLexicon(), "1"))

	_, err := NewInterpreter(parser).Run(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestInterpreter_Rerun(t *testing.T) {
	parser := NewParser(DefaultGrammar(), NewLexer(DefaultLexicon(), "y = x * 2"))
	in := NewInterpreter(parser)

	for _, x := range []float64{1, 2, 3} {
		res, err := in.Run(context.Background(), map[string]any{"x": x})
		if err != nil {
			t.Fatal(err)
		}

		if res.Variables["y"] != x*2 {
			t.Errorf("x=%v: got y=%v", x, res.Variables["y"])
		}
	}
}

func TestInterpreter_DivisionByZero(t *testing.T) {
	res, err := run(t, "1 / 0", nil)
	if err != nil {
		t.Fatal(err)
	}

	if f, ok := res.ReturnValue.(float64); !ok || !math.IsInf(f, 1) {
		t.Errorf("got %v, want +Inf", res.ReturnValue)
	}
}
