package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Node.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToMap())
}

// ToMap converts the tree rooted at n to native maps and slices.
//
// Every node becomes a map with a "type" key naming its kind, "start" and
// "end" offsets, and one key per populated field.
func (n *Node) ToMap() map[string]any {
	if n == nil {
		return nil
	}

	m := map[string]any{
		"type":  n.Kind.String(),
		"start": n.Start,
		"end":   n.End,
	}

	switch n.Kind {
	case NumericConstant:
		m["value"] = n.Number
	case StringConstant, Variable, NativeFunction, CallStatement:
		m["value"] = n.Text
	case BooleanConstant:
		m["value"] = n.Bool
	case MathExpression, ComparisonExpression, LogicalExpression,
		AssignmentExpression:
		m["operator"] = n.Operator
	case Block:
		nodes := make([]any, len(n.Nodes))
		for i, c := range n.Nodes {
			nodes[i] = c.ToMap()
		}

		m["nodes"] = nodes
	}

	for name, c := range n.Children() {
		if n.Kind != Block {
			m[name] = c.ToMap()
		}
	}

	return m
}
