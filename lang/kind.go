package lang

import (
	"log/slog"
	"strconv"
)

// Kind identifies the variant of a [Node].
type Kind int

// Node kinds.
const (
	Invalid Kind = iota
	NumericConstant
	StringConstant
	BooleanConstant
	Variable
	MinusOperator
	MathExpression
	ComparisonExpression
	LogicalExpression
	AssignmentExpression
	IfStatement
	Block
	UpperStatement
	LowerStatement
	FormatStatement
	NativeFunction
	CallStatement
	SnakeStatement
	CamelStatement
	KebabStatement
)

var kindNames = [...]string{
	Invalid:              "Invalid",
	NumericConstant:      "NumericConstant",
	StringConstant:       "StringConstant",
	BooleanConstant:      "BooleanConstant",
	Variable:             "Variable",
	MinusOperator:        "MinusOperator",
	MathExpression:       "MathExpression",
	ComparisonExpression: "ComparisonExpression",
	LogicalExpression:    "LogicalExpression",
	AssignmentExpression: "AssignmentExpression",
	IfStatement:          "IfStatement",
	Block:                "Block",
	UpperStatement:       "UpperStatement",
	LowerStatement:       "LowerStatement",
	FormatStatement:      "FormatStatement",
	NativeFunction:       "NativeFunction",
	CallStatement:        "CallStatement",
	SnakeStatement:       "SnakeStatement",
	CamelStatement:       "CamelStatement",
	KebabStatement:       "KebabStatement",
}

// String returns the kind name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the kind with the given name, or [Invalid].
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return Kind(k)
		}
	}

	return Invalid
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	*k = ParseKind(string(text))
	if *k == Invalid {
		return ErrInvalidTable.With(slog.String("kind", string(text)))
	}

	return nil
}
