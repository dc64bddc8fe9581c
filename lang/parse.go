package lang

import (
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Parser builds a syntax tree from the tokens of a [Lexer], following the
// operator table and statement rules of a [Grammar].
//
// The parser holds one token of lookahead. It is not safe for concurrent
// use, and it owns its lexer.
type Parser struct {
	grammar *Grammar
	lexer   *Lexer
	opts    options
	token   Token
	eof     bool
	depth   int
}

// NewParser returns a parser over the tokens of lexer.
func NewParser(grammar *Grammar, lexer *Lexer, opts ...Option) *Parser {
	return &Parser{
		grammar: grammar,
		lexer:   lexer,
		opts:    apply(lexer.opts, opts...),
	}
}

// Grammar returns the grammar the parser follows.
func (p *Parser) Grammar() *Grammar { return p.grammar }

// Lexer returns the lexer the parser reads from.
func (p *Parser) Lexer() *Lexer { return p.lexer }

// Reset rewinds the lexer and loads the first token.
func (p *Parser) Reset() error {
	p.lexer.Reset()
	p.depth = 0

	return p.advance()
}

// Parse parses the entire text as a single root [Block] of statements.
//
// Tokens left over after the root block (such as an unmatched closing
// brace) are an error.
func (p *Parser) Parse() (*Node, error) {
	if err := p.Reset(); err != nil {
		return nil, p.annotate(err)
	}

	root, err := p.block()
	if err != nil {
		return nil, p.annotate(err)
	}

	if !p.eof {
		return nil, p.annotate(p.unexpected("Unexpected token after end of program"))
	}

	root.Start, root.End = 0, len(p.lexer.Text())

	p.opts.logger.Trace("parse complete",
		slog.Int("statements", len(root.Nodes)))

	return root, nil
}

// annotate attaches the source text to parse errors for snippet rendering.
func (p *Parser) annotate(err error) error {
	if pe, ok := err.(*ParseError); ok && pe.Source == "" {
		pe.Source = p.lexer.Text()
	}

	return err
}

// advance loads the next token into the lookahead slot.
func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err == io.EOF {
		p.token, p.eof = Token{}, true

		return nil
	}

	if err != nil {
		return err
	}

	p.token, p.eof = tok, false

	return nil
}

// at reports whether the lookahead token has type typ and, if value is
// non-empty, value.
func (p *Parser) at(typ, value string) bool {
	return !p.eof && p.token.Is(typ, value)
}

// current returns a copy of the lookahead token, or nil at end of input.
func (p *Parser) current() *Token {
	if p.eof {
		return nil
	}

	tok := p.token

	return &tok
}

// eat consumes the lookahead token if it has type typ and, if value is
// non-empty, value.
func (p *Parser) eat(typ, value string) error {
	if p.at(typ, value) {
		return p.advance()
	}

	msg := "Expected " + typ
	if value != "" {
		msg += ": " + strconv.Quote(value)
	}

	return &ParseError{
		Message:  msg,
		Token:    p.current(),
		Expected: &Expectation{Type: typ, Value: value},
	}
}

func (p *Parser) unexpected(msg string) *ParseError {
	return &ParseError{Message: msg, Token: p.current()}
}

// descend enters one level of nesting. Callers must defer p.ascend() even
// when descend fails.
func (p *Parser) descend() error {
	p.depth++

	if limit := p.opts.maxDepthOrDefault(); p.depth > limit {
		return &ParseError{
			Message: "Maximum nesting depth " + strconv.Itoa(limit) + " exceeded",
			Token:   p.current(),
			err: ErrMaxDepth.With(
				slog.Int("depth", p.depth),
				slog.Int("max_depth", limit)),
		}
	}

	return nil
}

func (p *Parser) ascend() { p.depth-- }

// invoke runs the parser routine r.
func (p *Parser) invoke(r Routine) (*Node, error) {
	switch r {
	case RoutineTerm:
		return p.term()
	case RoutineExpression:
		return p.expression()
	case RoutineFactor:
		return p.factor()
	case RoutineBlock:
		return p.block()
	default:
		return nil, p.unexpected("Grammar step names unknown routine " + r.String())
	}
}

// factor parses one atomic form: a parenthesized term, a unary minus over a
// term, a literal, a variable, a keyword-led statement, or a braced block.
func (p *Parser) factor() (*Node, error) {
	defer p.ascend()

	if err := p.descend(); err != nil {
		return nil, err
	}

	if p.eof {
		return nil, p.unexpected("Expected an expression")
	}

	tok := p.token

	switch {
	case tok.Is("parenthesis", "("):
		if err := p.advance(); err != nil {
			return nil, err
		}

		node, err := p.term()
		if err != nil {
			return nil, err
		}

		if err := p.eat("parenthesis", ")"); err != nil {
			return nil, err
		}

		return node, nil

	case tok.Is(OperatorType, "-"):
		if err := p.advance(); err != nil {
			return nil, err
		}

		operand, err := p.term()
		if err != nil {
			return nil, err
		}

		return p.built(&Node{
			Kind:    MinusOperator,
			Operand: operand,
			Start:   tok.Start,
			End:     tok.End,
		}), nil

	case tok.Is("number", ""):
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, &ParseError{Message: "Invalid number", Token: &tok}
		}

		return p.leaf(&Node{Kind: NumericConstant, Number: f, Text: tok.Value})

	case tok.Is("string", ""):
		return p.leaf(&Node{Kind: StringConstant, Text: tok.Value})

	case tok.Is("identifier", ""):
		if p.grammar.IsReserved(tok.Value) {
			if _, ok := p.grammar.Statement(tok.Type, tok.Value); !ok {
				return nil, p.unexpected("Reserved word has no statement rule")
			}

			return p.expression()
		}

		switch tok.Value {
		case "true", "false":
			return p.leaf(&Node{Kind: BooleanConstant, Bool: tok.Value == "true"})
		default:
			return p.leaf(&Node{Kind: Variable, Text: tok.Value})
		}

	case tok.Is("braces", "{"):
		if err := p.advance(); err != nil {
			return nil, err
		}

		node, err := p.block()
		if err != nil {
			return nil, err
		}

		node.Start = tok.Start
		if err := p.eat("braces", "}"); err != nil {
			return nil, err
		}

		return node, nil

	default:
		return nil, p.unexpected("Expected an expression")
	}
}

// leaf finishes a node built from the lookahead token and consumes it.
func (p *Parser) leaf(node *Node) (*Node, error) {
	node.Start, node.End = p.token.Start, p.token.End

	if err := p.advance(); err != nil {
		return nil, err
	}

	return p.built(node), nil
}

func (p *Parser) built(node *Node) *Node {
	p.opts.logger.Trace("node",
		slog.String("kind", node.Kind.String()),
		slog.Int("start", node.Start))

	return node
}

// term parses a factor followed by any chain of binary operators.
func (p *Parser) term() (*Node, error) {
	return p.sweep(p.grammar.loosest())
}

// sweep parses a factor and then folds binary operators into it.
//
// Each pass walks the whole operator table in order, and for each entry
// bound tighter than limit drains every adjacent occurrence of it. A pass
// that folds anything is followed by another, so table order decides which
// operator is folded first. The right operand of an operator in tier T is
// itself a sweep limited to tiers tighter than T, which makes operators in
// one tier associate left-to-right. Assignment is the exception: its right
// operand may contain another assignment.
func (p *Parser) sweep(limit int) (*Node, error) {
	defer p.ascend()

	if err := p.descend(); err != nil {
		return nil, err
	}

	node, err := p.factor()
	if err != nil {
		return nil, err
	}

	for folded := true; folded; {
		folded = false

		for i, op := range p.grammar.Operators {
			tier := p.grammar.tier(i)
			if tier >= limit {
				continue
			}

			for p.at(OperatorType, op.Value) {
				tok := p.token

				if op.Result == AssignmentExpression && node.Kind != Variable {
					return nil, &ParseError{
						Message:  "Invalid assignment target",
						Token:    &tok,
						Expected: &Expectation{Type: "identifier"},
					}
				}

				if err := p.advance(); err != nil {
					return nil, err
				}

				rhs := tier
				if op.Result == AssignmentExpression {
					rhs++
				}

				right, err := p.sweep(rhs)
				if err != nil {
					return nil, err
				}

				node = p.built(&Node{
					Kind:     op.Result,
					Operator: op.Value,
					Left:     node,
					Right:    right,
					Start:    tok.Start,
					End:      tok.End,
				})
				folded = true
			}
		}
	}

	return node, nil
}

// expression parses a keyword-led statement if the lookahead token is a
// reserved word with a statement rule, and a term otherwise.
func (p *Parser) expression() (*Node, error) {
	defer p.ascend()

	if err := p.descend(); err != nil {
		return nil, err
	}

	if p.eof {
		return nil, p.unexpected("Expected an expression")
	}

	tok := p.token

	if !p.grammar.IsReserved(tok.Value) {
		return p.term()
	}

	rule, ok := p.grammar.Statement(tok.Type, tok.Value)
	if !ok {
		return p.term()
	}

	node := &Node{
		Kind:  rule.Result,
		Text:  tok.Value,
		Start: tok.Start,
		End:   tok.End,
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	for _, step := range rule.Steps {
		if step.Optional && (p.eof || !step.matches(p.token)) {
			break
		}

		if step.Parse != RoutineNone {
			slot := node.field(step.Result)
			if slot == nil {
				return nil, p.unexpected("Grammar step names unknown field " + step.Result.String())
			}

			sub, err := p.invoke(step.Parse)
			if err != nil {
				return nil, err
			}

			*slot = sub

			continue
		}

		if err := p.consume(step); err != nil {
			return nil, err
		}
	}

	return p.built(node), nil
}

// consume eats the literal token required by step.
func (p *Parser) consume(step Step) error {
	if len(step.Values) == 0 || step.Value != "" {
		return p.eat(step.Type, step.Value)
	}

	if !p.eof && step.matches(p.token) {
		return p.advance()
	}

	return &ParseError{
		Message:  "Expected " + step.Type + " (one of " + strconv.Quote(strings.Join(step.Values, ",")) + ")",
		Token:    p.current(),
		Expected: &Expectation{Type: step.Type},
	}
}

// block parses statements until a closing brace or end of input.
func (p *Parser) block() (*Node, error) {
	node := &Node{Kind: Block, Start: p.token.Start}

	for !p.eof && !p.at("braces", "}") {
		stmt, err := p.expression()
		if err != nil {
			return nil, err
		}

		node.Nodes = append(node.Nodes, stmt)
	}

	node.End = p.token.End
	if p.eof {
		node.End = len(p.lexer.Text())
	}

	return p.built(node), nil
}
