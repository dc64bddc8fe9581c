package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
)

// OperatorType is the token type the parser treats as a binary operator.
const OperatorType = "operator"

// Operator is one entry of the binary operator table.
//
// Table order is the precedence ladder: earlier entries bind tighter. Level
// groups entries into one tier so that, for example, + and - associate
// left-to-right with each other. A zero Level places the entry in its own
// tier, numbered by its 1-based index in the table.
type Operator struct {
	Value  string
	Result Kind
	Level  int
}

// Routine names the parser routine a [Step] invokes.
type Routine int

// Parser routines.
const (
	RoutineNone Routine = iota
	RoutineTerm
	RoutineExpression
	RoutineFactor
	RoutineBlock
)

// String returns the routine name.
func (r Routine) String() string {
	switch r {
	case RoutineNone:
		return "none"
	case RoutineTerm:
		return "term"
	case RoutineExpression:
		return "expression"
	case RoutineFactor:
		return "factor"
	case RoutineBlock:
		return "block"
	default:
		return "Routine(" + strconv.Itoa(int(r)) + ")"
	}
}

// Field names the [Node] slot that receives a sub-parse result.
type Field int

// Node fields.
const (
	FieldNone Field = iota
	FieldTest
	FieldConsequence
	FieldAlternate
	FieldParam
	FieldFormat
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldNone:
		return "none"
	case FieldTest:
		return "test"
	case FieldConsequence:
		return "consequence"
	case FieldAlternate:
		return "alternate"
	case FieldParam:
		return "param"
	case FieldFormat:
		return "format"
	default:
		return "Field(" + strconv.Itoa(int(f)) + ")"
	}
}

// Step is one element of a statement production.
//
// A step with Parse set invokes that routine and stores the result in the
// node slot named by Result. Any other step consumes one token of Type
// whose value equals Value, or is one of Values, or is anything when both
// are empty.
//
// An Optional step is a guard: when the current token does not match it,
// it and every step after it are skipped without error.
type Step struct {
	Type     string
	Value    string
	Values   []string
	Parse    Routine
	Result   Field
	Optional bool
}

// matches reports whether tok satisfies the step's token constraint.
func (s Step) matches(tok Token) bool {
	if tok.Type != s.Type {
		return false
	}

	switch {
	case s.Value != "":
		return tok.Value == s.Value
	case len(s.Values) > 0:
		return slices.Contains(s.Values, tok.Value)
	default:
		return true
	}
}

// Statement is a keyword-led production. It is selected when the current
// token has type Type and value Value, and the keyword is reserved.
type Statement struct {
	Type   string
	Value  string
	Result Kind
	Steps  []Step
}

// Grammar is the declarative syntax of a language: a binary operator table,
// the set of reserved words, and the keyword-led statement rules.
type Grammar struct {
	Operators   []Operator
	Reserved    []string
	Expressions []Statement
}

// IsReserved reports whether word starts a keyword-led statement.
func (g *Grammar) IsReserved(word string) bool {
	return slices.Contains(g.Reserved, word)
}

// Statement returns the first statement rule led by a token of type typ and
// value value.
func (g *Grammar) Statement(typ, value string) (Statement, bool) {
	for _, s := range g.Expressions {
		if s.Type == typ && s.Value == value {
			return s, true
		}
	}

	return Statement{}, false
}

// tier returns the precedence tier of the operator at index i.
func (g *Grammar) tier(i int) int {
	if lv := g.Operators[i].Level; lv != 0 {
		return lv
	}

	return i + 1
}

// loosest returns one past the loosest tier in the operator table.
func (g *Grammar) loosest() int {
	limit := 0
	for i := range g.Operators {
		limit = max(limit, g.tier(i))
	}

	return limit + 1
}

// Validate checks the grammar against lexicon: every operator must be a
// permitted value of the lexicon's operator rule, every reserved word must
// lead a statement rule, and every sub-parse step must name a routine and a
// field.
func (g *Grammar) Validate(lexicon *Lexicon) error {
	var errs []error

	opRule, ok := lexicon.Rule(OperatorType)
	if !ok && len(g.Operators) > 0 {
		errs = append(errs, defect(ErrInvalidTable, "lexicon has no operator rule"))
	}

	for i, op := range g.Operators {
		if ok && !opRule.accepts(op.Value) {
			errs = append(errs, defect(ErrInvalidTable, "operator is not a lexicon value",
				slog.Int("index", i), slog.String("operator", op.Value)))
		}

		if op.Result == Invalid {
			errs = append(errs, defect(ErrInvalidTable, "missing result kind",
				slog.String("operator", op.Value)))
		}
	}

	for _, word := range g.Reserved {
		if !slices.ContainsFunc(g.Expressions, func(s Statement) bool {
			return s.Value == word
		}) {
			errs = append(errs, defect(ErrInvalidTable, "no statement rule",
				slog.String("reserved", word)))
		}
	}

	for _, s := range g.Expressions {
		if s.Result == Invalid {
			errs = append(errs, defect(ErrInvalidTable, "missing result kind",
				slog.String("statement", s.Value)))
		}

		for j, step := range s.Steps {
			if step.Parse != RoutineNone && step.Result == FieldNone {
				errs = append(errs, defect(ErrInvalidTable, "sub-parse without result field",
					slog.String("statement", s.Value), slog.Int("step", j)))
			}

			if step.Parse == RoutineNone && step.Type == "" {
				errs = append(errs, defect(ErrInvalidTable, "step consumes no token type",
					slog.String("statement", s.Value), slog.Int("step", j)))
			}
		}
	}

	return errors.Join(errs...)
}
