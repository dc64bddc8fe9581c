package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// WriteSource writes the tree rooted at n as source text in the default syntax.
// Binary expressions are fully parenthesized, so the output parses back to
// an equivalent tree under any operator table. A positive indent puts each
// statement of a block on its own line.
func (n *Node) WriteSource(_ context.Context, w io.Writer, indent int) error {
	var b strings.Builder

	if n != nil && n.Kind == Block {
		formatStatements(&b, n.Nodes, indent, 0, "")
	} else {
		formatNode(&b, n, indent, 0)
	}

	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())

	return err
}

// WriteJSON writes the tree rooted at n as JSON.
func (n *Node) WriteJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(n, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(n)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// WriteYAML writes the tree rooted at n as YAML.
func (n *Node) WriteYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, n.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

func formatStatements(b *strings.Builder, nodes []*Node, indent, depth int, sep string) {
	for i, c := range nodes {
		if i > 0 {
			if indent > 0 {
				b.WriteByte('\n')
			} else {
				b.WriteString("; ")
			}
		}

		b.WriteString(sep)
		formatNode(b, c, indent, depth)
	}
}

func formatNode(b *strings.Builder, n *Node, indent, depth int) {
	if n == nil {
		return
	}

	switch n.Kind {
	case NumericConstant:
		b.WriteString(strconv.FormatFloat(n.Number, 'f', -1, 64))

	case StringConstant:
		b.WriteString(`"` + n.Text + `"`)

	case BooleanConstant:
		b.WriteString(strconv.FormatBool(n.Bool))

	case Variable:
		b.WriteString(n.Text)

	case MinusOperator:
		// unary minus captures a whole term, so it is closed off entirely
		b.WriteString("(-(")
		formatNode(b, n.Operand, indent, depth)
		b.WriteString("))")

	case MathExpression, ComparisonExpression, LogicalExpression:
		b.WriteByte('(')
		formatOperand(b, n.Left, indent, depth)
		b.WriteString(" " + n.Operator + " ")
		formatOperand(b, n.Right, indent, depth)
		b.WriteByte(')')

	case AssignmentExpression:
		formatNode(b, n.Left, indent, depth)
		b.WriteString(" " + n.Operator + " ")
		formatNode(b, n.Right, indent, depth)

	case IfStatement:
		b.WriteString("if (")
		formatNode(b, n.Test, indent, depth)
		b.WriteString(") ")
		formatBlock(b, n.Consequence, indent, depth)

		if n.Alternate != nil {
			b.WriteString(" else ")
			formatBlock(b, n.Alternate, indent, depth)
		}

	case Block:
		formatBlock(b, n, indent, depth)

	case FormatStatement:
		b.WriteString(n.Text + "(")
		formatNode(b, n.Format, indent, depth)
		b.WriteString(", ")
		formatNode(b, n.Param, indent, depth)
		b.WriteByte(')')

	case UpperStatement, LowerStatement, SnakeStatement, CamelStatement,
		KebabStatement:
		b.WriteString(n.Text + "(")
		formatNode(b, n.Param, indent, depth)
		b.WriteByte(')')

	case NativeFunction, CallStatement:
		b.WriteString(n.Text + "()")

	default:
		b.WriteString("/* " + n.Kind.String() + " */")
	}
}

// formatOperand writes an operand of a binary expression. An assignment
// would otherwise absorb the rest of the expression when parsed again.
func formatOperand(b *strings.Builder, n *Node, indent, depth int) {
	if n == nil || n.Kind != AssignmentExpression {
		formatNode(b, n, indent, depth)

		return
	}

	b.WriteByte('(')
	formatNode(b, n, indent, depth)
	b.WriteByte(')')
}

// formatBlock writes n wrapped in braces. A non-block node is wrapped as a
// single statement.
func formatBlock(b *strings.Builder, n *Node, indent, depth int) {
	nodes := []*Node{n}
	if n.Kind == Block {
		nodes = n.Nodes
	}

	if len(nodes) == 0 {
		b.WriteString("{}")

		return
	}

	if indent <= 0 {
		b.WriteString("{ ")
		formatStatements(b, nodes, indent, depth+1, "")
		b.WriteString(" }")

		return
	}

	pad := strings.Repeat(" ", indent*(depth+1))

	b.WriteString("{\n")
	formatStatements(b, nodes, indent, depth+1, pad)
	b.WriteString("\n" + strings.Repeat(" ", indent*depth) + "}")
}
