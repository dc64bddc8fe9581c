package lang

// Builder provides a programmatic API for constructing syntax trees without
// parsing source text. This is useful for generating scripts with
// [Node.WriteSource] or for testing.
//
// Example:
//
//	b := lang.NewBuilder()
//	root := b.Block(
//	    b.If(b.Binary(">", b.Var("n"), b.Number(1)),
//	        b.Block(b.Assign("s", b.String("items"))),
//	        b.Block(b.Assign("s", b.String("item"))),
//	    ),
//	)
//
// Nodes built this way carry zero offsets.
type Builder struct {
	grammar *Grammar
}

// NewBuilder creates a builder that resolves binary operators with
// [DefaultGrammar].
func NewBuilder() *Builder {
	return &Builder{grammar: DefaultGrammar()}
}

// NewGrammarBuilder creates a builder that resolves binary operators with
// the given grammar.
func NewGrammarBuilder(g *Grammar) *Builder {
	return &Builder{grammar: g}
}

// Block creates a [Block] node.
func (b *Builder) Block(nodes ...*Node) *Node {
	return &Node{Kind: Block, Nodes: nodes}
}

// Number creates a [NumericConstant] node.
func (b *Builder) Number(f float64) *Node {
	return &Node{Kind: NumericConstant, Number: f, Text: formatNumber(f)}
}

// String creates a [StringConstant] node.
func (b *Builder) String(s string) *Node {
	return &Node{Kind: StringConstant, Text: s}
}

// Bool creates a [BooleanConstant] node.
func (b *Builder) Bool(v bool) *Node {
	return &Node{Kind: BooleanConstant, Bool: v}
}

// Var creates a [Variable] node for a dot-separated path.
func (b *Builder) Var(path string) *Node {
	return &Node{Kind: Variable, Text: path}
}

// Minus creates a [MinusOperator] node.
func (b *Builder) Minus(operand *Node) *Node {
	return &Node{Kind: MinusOperator, Operand: operand}
}

// Binary creates a binary expression node whose kind is taken from the
// builder's operator table. An operator missing from the table yields an
// [Invalid] node.
func (b *Builder) Binary(op string, left, right *Node) *Node {
	kind := Invalid

	for _, o := range b.grammar.Operators {
		if o.Value == op {
			kind = o.Result

			break
		}
	}

	return &Node{Kind: kind, Operator: op, Left: left, Right: right}
}

// Assign creates an [AssignmentExpression] node storing value at path.
func (b *Builder) Assign(path string, value *Node) *Node {
	return &Node{
		Kind:     AssignmentExpression,
		Operator: "=",
		Left:     b.Var(path),
		Right:    value,
	}
}

// If creates an [IfStatement] node. alternate may be nil.
func (b *Builder) If(test, consequence, alternate *Node) *Node {
	return &Node{
		Kind:        IfStatement,
		Text:        "if",
		Test:        test,
		Consequence: consequence,
		Alternate:   alternate,
	}
}

// Convert creates a case conversion statement such as upper(param).
// keyword must lead a statement of the builder's grammar.
func (b *Builder) Convert(keyword string, param *Node) *Node {
	return &Node{Kind: b.kind(keyword), Text: keyword, Param: param}
}

// Format creates a [FormatStatement] node.
func (b *Builder) Format(format, param *Node) *Node {
	return &Node{Kind: FormatStatement, Text: "format", Format: format, Param: param}
}

// Call creates a parameterless statement such as now() or hide(), whose
// kind is taken from the builder's grammar.
func (b *Builder) Call(keyword string) *Node {
	return &Node{Kind: b.kind(keyword), Text: keyword}
}

// kind returns the result kind of the statement led by keyword.
func (b *Builder) kind(keyword string) Kind {
	for _, s := range b.grammar.Expressions {
		if s.Value == keyword {
			return s.Result
		}
	}

	return Invalid
}
