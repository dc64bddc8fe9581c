package lang

import (
	"maps"
	"testing"

	"github.com/expr-lang/expr"
)

// TestInterpreter_ExprOracle checks arithmetic, comparison and logic on the
// operator subset this language shares with expr-lang, whose evaluator
// serves as the reference for precedence and associativity.
func TestInterpreter_ExprOracle(t *testing.T) {
	env := map[string]any{"a": 1.5, "b": 2.0, "c": 3.0, "d": 0.0}

	inputs := []string{
		"a + b * c",
		"(a + b) * c",
		"a - b - c",
		"a - b + c",
		"a / b / c",
		"a * b - c / a",
		"1 + 2 * 3 - 4 / 2",
		"c - (b - a) * 2",
		"a < b && b < c",
		"a > b || c >= 3",
		"a == 1.5 && b != c",
		"a <= d || b > a && c < d",
		"a + b > c == (d < a)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			want, err := expr.Eval(input, env)
			if err != nil {
				t.Fatalf("expr: %v", err)
			}

			vars := maps.Clone(env)

			res, err := Default().Run(t.Context(), input, vars)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			if !Equal(res.ReturnValue, want) {
				t.Errorf("got %#v, expr gives %#v", res.ReturnValue, want)
			}
		})
	}
}
