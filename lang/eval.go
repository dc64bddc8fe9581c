package lang

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
)

// Result is the outcome of a run: the value of the last statement evaluated
// and the variable tree after all assignments.
type Result struct {
	ReturnValue any            `json:"returnValue" yaml:"returnValue"`
	Variables   map[string]any `json:"variables"   yaml:"variables"`
}

// Interpreter evaluates the tree produced by a [Parser] against a variable
// environment. It is not safe for concurrent use.
type Interpreter struct {
	parser *Parser
	opts   options
	env    *Environment
	upper  cases.Caser
	lower  cases.Caser
}

// NewInterpreter returns an interpreter that evaluates the program parsed
// by parser.
func NewInterpreter(parser *Parser, opts ...Option) *Interpreter {
	return newInterpreter(parser, apply(parser.opts, opts...))
}

func newInterpreter(parser *Parser, o options) *Interpreter {
	o = o.withDefaults()

	return &Interpreter{
		parser: parser,
		opts:   o,
		upper:  cases.Upper(o.tag),
		lower:  cases.Lower(o.tag),
	}
}

// Run parses the program and evaluates it against vars. A nil vars starts
// from an empty environment; otherwise vars is modified in place.
func (in *Interpreter) Run(ctx context.Context, vars map[string]any) (Result, error) {
	root, err := in.parser.Parse()
	if err != nil {
		return Result{Variables: vars}, err
	}

	return in.Evaluate(ctx, root, vars)
}

// Evaluate evaluates a parsed tree against vars. A nil vars starts from an
// empty environment; otherwise vars is modified in place.
//
// When evaluation fails, the assignments made before the failing statement
// remain in Variables.
func (in *Interpreter) Evaluate(
	ctx context.Context,
	root *Node,
	vars map[string]any,
) (Result, error) {
	in.env = NewEnvironment(vars)

	in.opts.logger.TraceContext(ctx, "evaluate",
		slog.Int("variables", len(in.env.Map())))

	value, err := in.visit(ctx, root)

	return Result{ReturnValue: value, Variables: in.env.Map()}, err
}

// visit evaluates one node.
func (in *Interpreter) visit(ctx context.Context, n *Node) (any, error) {
	if n == nil {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, interpretError(n, "evaluation canceled", context.Cause(ctx))
	}

	in.opts.logger.TraceContext(ctx, "visit",
		slog.String("kind", n.Kind.String()),
		slog.Int("start", n.Start))

	switch n.Kind {
	case NumericConstant:
		return n.Number, nil

	case StringConstant:
		return n.Text, nil

	case BooleanConstant:
		return n.Bool, nil

	case Variable:
		v, ok := in.env.Lookup(ParsePath(n.Text))
		if !ok {
			return nil, interpretError(n, "Unknown identifier: "+n.Text, nil)
		}

		return v, nil

	case MinusOperator:
		return in.visitMinus(ctx, n)

	case MathExpression:
		return in.visitMath(ctx, n)

	case ComparisonExpression:
		return in.visitComparison(ctx, n)

	case LogicalExpression:
		return in.visitLogical(ctx, n)

	case AssignmentExpression:
		value, err := in.visit(ctx, n.Right)
		if err != nil {
			return nil, err
		}

		return in.env.Assign(ParsePath(n.Left.Text), value), nil

	case IfStatement:
		test, err := in.visit(ctx, n.Test)
		if err != nil {
			return nil, err
		}

		if Truthy(test) {
			return in.visit(ctx, n.Consequence)
		}

		return in.visit(ctx, n.Alternate)

	case Block:
		var last any

		for _, c := range n.Nodes {
			v, err := in.visit(ctx, c)
			if err != nil {
				return nil, err
			}

			last = v
		}

		return last, nil

	case UpperStatement:
		return in.convert(ctx, n, in.upper.String)

	case LowerStatement:
		return in.convert(ctx, n, in.lower.String)

	case SnakeStatement:
		return in.convert(ctx, n, strcase.ToSnake)

	case CamelStatement:
		return in.convert(ctx, n, strcase.ToLowerCamel)

	case KebabStatement:
		return in.convert(ctx, n, strcase.ToKebab)

	case FormatStatement:
		format, err := in.visit(ctx, n.Format)
		if err != nil {
			return nil, err
		}

		param, err := in.visit(ctx, n.Param)
		if err != nil {
			return nil, err
		}

		s, err := in.opts.formatter.Format(Stringify(format), param)
		if err != nil {
			return nil, interpretError(n, "format failed", err)
		}

		return s, nil

	case NativeFunction:
		fn, ok := in.opts.natives[n.Text]
		if !ok {
			return nil, interpretError(n, "Unknown native function: "+n.Text, nil)
		}

		v, err := fn(ctx)
		if err != nil {
			return nil, interpretError(n, "native function "+n.Text+" failed", err)
		}

		return v, nil

	case CallStatement:
		if in.opts.callback != nil {
			in.opts.callback(n.Text)
		}

		return nil, nil

	default:
		return nil, ErrNoEvaluator.With(
			slog.String("kind", n.Kind.String()),
			slog.Int("start", n.Start))
	}
}

// convert stringifies the evaluated parameter of n and applies fn.
func (in *Interpreter) convert(
	ctx context.Context,
	n *Node,
	fn func(string) string,
) (any, error) {
	v, err := in.visit(ctx, n.Param)
	if err != nil {
		return nil, err
	}

	return fn(Stringify(v)), nil
}

// visitMinus negates a number, or reverses a string.
func (in *Interpreter) visitMinus(ctx context.Context, n *Node) (any, error) {
	v, err := in.visit(ctx, n.Operand)
	if err != nil {
		return nil, err
	}

	switch x := normalize(v).(type) {
	case string:
		rs := []rune(x)
		for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
			rs[i], rs[j] = rs[j], rs[i]
		}

		return string(rs), nil
	default:
		f, ok := ToNumber(x)
		if !ok {
			return nil, interpretError(n, "Cannot negate "+TypeName(v), nil)
		}

		return -f, nil
	}
}

func (in *Interpreter) operands(ctx context.Context, n *Node) (any, any, error) {
	left, err := in.visit(ctx, n.Left)
	if err != nil {
		return nil, nil, err
	}

	right, err := in.visit(ctx, n.Right)
	if err != nil {
		return nil, nil, err
	}

	return left, right, nil
}

func (in *Interpreter) visitMath(ctx context.Context, n *Node) (any, error) {
	left, right, err := in.operands(ctx, n)
	if err != nil {
		return nil, err
	}

	if n.Operator == "+" {
		_, ls := normalize(left).(string)
		_, rs := normalize(right).(string)

		if ls || rs {
			return Stringify(left) + Stringify(right), nil
		}
	}

	x, xok := ToNumber(left)
	y, yok := ToNumber(right)

	if !xok || !yok {
		return nil, interpretError(n,
			"Invalid operands for "+n.Operator+": "+TypeName(left)+" and "+TypeName(right), nil)
	}

	switch n.Operator {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		return x / y, nil
	default:
		return nil, interpretError(n, "Unknown operator: "+n.Operator, nil)
	}
}

func (in *Interpreter) visitComparison(ctx context.Context, n *Node) (any, error) {
	left, right, err := in.operands(ctx, n)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case "==":
		return Equal(left, right), nil
	case "!=":
		return !Equal(left, right), nil
	case "=~":
		re, err := regexp.Compile("(?i)" + strings.ToLower(Stringify(right)))
		if err != nil {
			return nil, interpretError(n, "Invalid pattern", err)
		}

		return re.MatchString(strings.ToLower(Stringify(left))), nil
	case "<", ">", "<=", ">=":
		c, ok := Compare(left, right)
		if !ok {
			return false, nil
		}

		switch n.Operator {
		case "<":
			return c < 0, nil
		case ">":
			return c > 0, nil
		case "<=":
			return c <= 0, nil
		default:
			return c >= 0, nil
		}
	default:
		return nil, interpretError(n, "Unknown operator: "+n.Operator, nil)
	}
}

// visitLogical evaluates the right operand only when the left one does not
// decide the result, and returns the deciding operand.
func (in *Interpreter) visitLogical(ctx context.Context, n *Node) (any, error) {
	left, err := in.visit(ctx, n.Left)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case "&&":
		if !Truthy(left) {
			return left, nil
		}
	case "||":
		if Truthy(left) {
			return left, nil
		}
	default:
		return nil, interpretError(n, "Unknown operator: "+n.Operator, nil)
	}

	return in.visit(ctx, n.Right)
}
