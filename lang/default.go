package lang

import "regexp"

// DefaultLexicon returns the token rules of the default language.
//
// Rules are tried in order: ignore (space, tab, newline, carriage return and
// semicolon), identifier, number, string, operator, parenthesis, braces and
// comma.
func DefaultLexicon() *Lexicon {
	re := regexp.MustCompile

	return &Lexicon{
		Rules: []Rule{
			{
				Type:      DefaultIgnore,
				StartTest: re(`^[ \t\n\r;]$`),
				Test:      re(`^[ \t\n\r;]$`),
			},
			{
				Type:      "identifier",
				StartTest: re(`^[a-zA-Z_]$`),
				Test:      re(`^[a-zA-Z0-9_.]$`),
			},
			{
				Type:      "number",
				StartTest: re(`^[0-9]$`),
				Test:      re(`^[0-9.]$`),
			},
			{
				Type:      "string",
				StartTest: re(`^"$`),
				Scanner:   ScanQuoted,
			},
			{
				Type:      OperatorType,
				StartTest: re(`^[-+*/<>=|&!~]$`),
				Test:      re(`^[-+*/<>=|&!~]$`),
				Values: []string{
					"=", "+", "-", "*", "/",
					"==", "!=", ">=", "<=", "<", ">",
					"||", "&&", "=~",
				},
			},
			{
				Type:      "parenthesis",
				StartTest: re(`^[()]$`),
			},
			{
				Type:      "braces",
				StartTest: re(`^[{}]$`),
			},
			{
				Type:      "comma",
				StartTest: re(`^,$`),
			},
		},
	}
}

// DefaultGrammar returns the operator table and statement rules of the
// default language.
//
// Operator tiers, from tightest to loosest:
//
//	1  *  /
//	2  +  -
//	3  ==  !=  <=  >=  <  >  =~
//	4  &&
//	5  ||
//	6  =
func DefaultGrammar() *Grammar {
	g := &Grammar{
		Operators: []Operator{
			{Value: "*", Result: MathExpression, Level: 1},
			{Value: "/", Result: MathExpression, Level: 1},
			{Value: "+", Result: MathExpression, Level: 2},
			{Value: "-", Result: MathExpression, Level: 2},
			{Value: "==", Result: ComparisonExpression, Level: 3},
			{Value: "!=", Result: ComparisonExpression, Level: 3},
			{Value: "<=", Result: ComparisonExpression, Level: 3},
			{Value: ">=", Result: ComparisonExpression, Level: 3},
			{Value: "<", Result: ComparisonExpression, Level: 3},
			{Value: ">", Result: ComparisonExpression, Level: 3},
			{Value: "=~", Result: ComparisonExpression, Level: 3},
			{Value: "&&", Result: LogicalExpression, Level: 4},
			{Value: "||", Result: LogicalExpression, Level: 5},
			{Value: "=", Result: AssignmentExpression, Level: 6},
		},
	}

	g.Expressions = append(g.Expressions, Statement{
		Type:   "identifier",
		Value:  "if",
		Result: IfStatement,
		Steps: []Step{
			{Type: "parenthesis", Value: "("},
			{Parse: RoutineTerm, Result: FieldTest},
			{Type: "parenthesis", Value: ")"},
			{Parse: RoutineExpression, Result: FieldConsequence},
			{Type: "identifier", Values: []string{"else"}, Optional: true},
			{Parse: RoutineExpression, Result: FieldAlternate},
		},
	})

	for _, kw := range []string{"hide", "show"} {
		g.Expressions = append(g.Expressions, Statement{
			Type:   "identifier",
			Value:  kw,
			Result: CallStatement,
			Steps:  emptyCall,
		})
	}

	for _, kw := range []string{"now", "day", "month", "year"} {
		g.Expressions = append(g.Expressions, Statement{
			Type:   "identifier",
			Value:  kw,
			Result: NativeFunction,
			Steps:  emptyCall,
		})
	}

	for _, conv := range []struct {
		kw   string
		kind Kind
	}{
		{"upper", UpperStatement},
		{"lower", LowerStatement},
		{"snake", SnakeStatement},
		{"camel", CamelStatement},
		{"kebab", KebabStatement},
	} {
		g.Expressions = append(g.Expressions, Statement{
			Type:   "identifier",
			Value:  conv.kw,
			Result: conv.kind,
			Steps: []Step{
				{Type: "parenthesis", Value: "("},
				{Parse: RoutineTerm, Result: FieldParam},
				{Type: "parenthesis", Value: ")"},
			},
		})
	}

	g.Expressions = append(g.Expressions, Statement{
		Type:   "identifier",
		Value:  "format",
		Result: FormatStatement,
		Steps: []Step{
			{Type: "parenthesis", Value: "("},
			{Parse: RoutineTerm, Result: FieldFormat},
			{Type: "comma", Value: ","},
			{Parse: RoutineTerm, Result: FieldParam},
			{Type: "parenthesis", Value: ")"},
		},
	})

	for _, s := range g.Expressions {
		g.Reserved = append(g.Reserved, s.Value)
	}

	return g
}

var emptyCall = []Step{
	{Type: "parenthesis", Value: "("},
	{Type: "parenthesis", Value: ")"},
}
