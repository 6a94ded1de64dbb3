package vars

import (
	"math"

	"github.com/goccy/go-yaml/ast"
)

// Value is a single scalar option value.
type Value struct {
	raw  any
	text string
}

// NewValue creates a [Value] from its literal text and typed value.
func NewValue(text string, raw any) Value {
	return Value{text: text, raw: raw}
}

// StringValue creates a [Value] holding a plain string.
func StringValue(s string) Value {
	return Value{text: s, raw: s}
}

// String returns the literal text of the value, as written in the options
// file (without quotes). This is what gets substituted into templates.
func (v Value) String() string {
	return v.text
}

// Raw returns the typed value: int64, uint64, float64, bool, string or nil.
// uint64 is only used for integers larger than [math.MaxInt64].
func (v Value) Raw() any {
	return v.raw
}

func valueFromNode(n ast.ScalarNode) Value {
	switch node := n.(type) {
	case *ast.StringNode:
		return Value{text: node.Value, raw: node.Value}
	case *ast.LiteralNode:
		return Value{text: node.Value.Value, raw: node.Value.Value}
	case *ast.NullNode:
		return Value{text: tokenText(node, "null"), raw: nil}
	case *ast.IntegerNode:
		// Unsigned values that fit are stored as int64 so that they compare
		// with plain integer literals.
		if u, ok := node.Value.(uint64); ok && u <= math.MaxInt64 {
			return Value{text: tokenText(node, ""), raw: int64(u)}
		}
	}

	return Value{text: tokenText(n, ""), raw: n.GetValue()}
}

func tokenText(n ast.Node, fallback string) string {
	tk := n.GetToken()
	if tk == nil || tk.Value == "" {
		return fallback
	}

	return tk.Value
}
