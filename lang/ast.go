package lang

import (
	"context"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Node is an element of the syntax tree built by [Parser].
//
// Which fields are meaningful depends on Kind:
//
//	NumericConstant        Number, Text (literal)
//	StringConstant         Text
//	BooleanConstant        Bool
//	Variable               Text (dot-separated path)
//	NativeFunction         Text (function name)
//	CallStatement          Text (keyword)
//	MinusOperator          Operand
//	Math/Comparison/Logical/AssignmentExpression
//	                       Operator, Left, Right
//	IfStatement            Test, Consequence, Alternate (optional)
//	Block                  Nodes
//	Upper/Lower/Snake/Camel/KebabStatement
//	                       Param
//	FormatStatement        Format, Param
//
// Start and End are copied from the token that introduced the node.
// Nodes are not modified after parsing.
type Node struct {
	Left        *Node
	Right       *Node
	Operand     *Node
	Test        *Node
	Consequence *Node
	Alternate   *Node
	Param       *Node
	Format      *Node
	Text        string
	Operator    string
	Nodes       []*Node
	Number      float64
	Start       int
	End         int
	Kind        Kind
	Bool        bool
}

// Children returns an iterator over the non-nil child nodes in source
// order, paired with the name of the slot holding each.
func (n *Node) Children() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		if n == nil {
			return
		}

		for i, c := range n.Nodes {
			if !yield(strconv.Itoa(i), c) {
				return
			}
		}

		for _, slot := range []struct {
			name string
			node *Node
		}{
			{"left", n.Left},
			{"right", n.Right},
			{"operand", n.Operand},
			{"test", n.Test},
			{"consequence", n.Consequence},
			{"alternate", n.Alternate},
			{"format", n.Format},
			{"param", n.Param},
		} {
			if slot.node != nil && !yield(slot.name, slot.node) {
				return
			}
		}
	}
}

// Walk calls fn for n and each of its descendants in depth-first order.
// Descent stops at any node for which fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range n.Children() {
		c.Walk(fn)
	}
}

// field returns a pointer to the slot named by f.
func (n *Node) field(f Field) **Node {
	switch f {
	case FieldTest:
		return &n.Test
	case FieldConsequence:
		return &n.Consequence
	case FieldAlternate:
		return &n.Alternate
	case FieldParam:
		return &n.Param
	case FieldFormat:
		return &n.Format
	default:
		return nil
	}
}

// label returns the scalar shown beside the kind when printing.
func (n *Node) label() string {
	switch n.Kind {
	case NumericConstant:
		return strconv.FormatFloat(n.Number, 'f', -1, 64)
	case StringConstant:
		return strconv.Quote(n.Text)
	case BooleanConstant:
		return strconv.FormatBool(n.Bool)
	case Variable, NativeFunction, CallStatement:
		return n.Text
	case MathExpression, ComparisonExpression, LogicalExpression,
		AssignmentExpression:
		return n.Operator
	default:
		return ""
	}
}

func writer(w io.Writer) func(eol string, item ...string) {
	return func(eol string, item ...string) {
		_, err := io.WriteString(w, strings.Join(item, ": ")+eol)
		if err != nil {
			panic(err)
		}
	}
}

// Print writes an indented outline of the tree rooted at n.
func (n *Node) Print(ctx context.Context, w io.Writer) {
	n.PrintIndent(ctx, w, 0)
}

// PrintIndent writes an indented outline of the tree rooted at n, starting
// at the given depth.
func (n *Node) PrintIndent(ctx context.Context, w io.Writer, indent int) {
	prefix := strings.Repeat("  ", indent)
	put := writer(w)

	if n == nil {
		put("\n", prefix+"(nil)")

		return
	}

	if label := n.label(); label != "" {
		put("\n", prefix+n.Kind.String(), label)
	} else {
		put("\n", prefix+n.Kind.String())
	}

	for name, c := range n.Children() {
		if n.Kind == Block {
			c.PrintIndent(ctx, w, indent+1)

			continue
		}

		put("\n", prefix+"  ."+name)
		c.PrintIndent(ctx, w, indent+2)
	}
}
