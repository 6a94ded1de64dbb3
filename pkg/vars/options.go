package vars

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/macropower/kbatch/pkg/yaml"
)

var (
	// ErrInvalidOptions is returned when the options document does not have
	// the shape name -> sequence of scalars.
	ErrInvalidOptions = errors.New("invalid variable options")

	// ErrEmptyOptions is returned when the options document is empty.
	ErrEmptyOptions = errors.New("no variable options defined")
)

// Variable is a named, ordered list of candidate values.
type Variable struct {
	Name   string
	Values []Value
}

// Options is an ordered set of [Variable]s.
type Options struct {
	vars []Variable
}

// NewOptions creates [Options] from the given variables, in order.
// Variable names must be unique.
func NewOptions(vs ...Variable) (*Options, error) {
	seen := make(map[string]bool, len(vs))
	for _, v := range vs {
		if seen[v.Name] {
			return nil, fmt.Errorf("%w: duplicate variable %q", ErrInvalidOptions, v.Name)
		}

		seen[v.Name] = true
	}

	return &Options{vars: vs}, nil
}

// MustNewOptions is like [NewOptions] but panics on error.
func MustNewOptions(vs ...Variable) *Options {
	o, err := NewOptions(vs...)
	if err != nil {
		panic(err)
	}

	return o
}

// Strings builds a [Variable] from plain string values.
func Strings(name string, values ...string) Variable {
	v := Variable{Name: name, Values: make([]Value, 0, len(values))}
	for _, s := range values {
		v.Values = append(v.Values, StringValue(s))
	}

	return v
}

// Load reads and parses a variable options file.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: User-provided path.
	if err != nil {
		return nil, fmt.Errorf("read variables file: %w", err)
	}

	opts, err := Parse(data)
	if err != nil {
		return nil, yaml.NewErrorWrapper(yaml.WithSource(data), yaml.WithFile(path)).Wrap(err)
	}

	return opts, nil
}

// Parse parses a YAML variable options document. Key order is preserved.
func Parse(data []byte) (*Options, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, yaml.AsError(err)
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return nil, ErrEmptyOptions
	}

	var values []*ast.MappingValueNode

	switch body := file.Docs[0].Body.(type) {
	case *ast.MappingNode:
		values = body.Values
	case *ast.MappingValueNode:
		values = []*ast.MappingValueNode{body}
	case *ast.NullNode:
		return nil, ErrEmptyOptions
	default:
		return nil, nodeError(body, "expected a mapping of variable names to lists of values")
	}

	vs := make([]Variable, 0, len(values))
	for _, mv := range values {
		v, err := parseVariable(mv)
		if err != nil {
			return nil, err
		}

		vs = append(vs, v)
	}

	return NewOptions(vs...)
}

func parseVariable(mv *ast.MappingValueNode) (Variable, error) {
	name := mv.Key.String()
	if s, ok := mv.Key.(*ast.StringNode); ok {
		name = s.Value
	}

	seq, ok := unwrap(mv.Value).(*ast.SequenceNode)
	if !ok {
		return Variable{}, nodeError(mv.Key, fmt.Sprintf("variable %q: expected a list of values", name))
	}

	v := Variable{Name: name, Values: make([]Value, 0, len(seq.Values))}
	for i, n := range seq.Values {
		if _, alias := unwrap(n).(*ast.AliasNode); alias {
			return Variable{}, nodeError(n, fmt.Sprintf("variable %q: aliases are not supported", name))
		}

		scalar, ok := unwrap(n).(ast.ScalarNode)
		if !ok {
			return Variable{}, nodeError(n, fmt.Sprintf("variable %q: value %d is not a scalar", name, i))
		}

		v.Values = append(v.Values, valueFromNode(scalar))
	}

	return v, nil
}

// unwrap returns the node a tag or anchor applies to.
func unwrap(n ast.Node) ast.Node {
	for {
		switch node := n.(type) {
		case *ast.TagNode:
			n = node.Value
		case *ast.AnchorNode:
			n = node.Value
		default:
			return n
		}
	}
}

func nodeError(n ast.Node, msg string) error {
	return yaml.NewError(fmt.Errorf("%w: %s", ErrInvalidOptions, msg), yaml.WithToken(n.GetToken()))
}

// Len returns the number of variables.
func (o *Options) Len() int {
	return len(o.vars)
}

// Variables returns the variables in order.
func (o *Options) Variables() []Variable {
	return o.vars
}

// Names returns the variable names in order.
func (o *Options) Names() []string {
	names := make([]string, 0, len(o.vars))
	for _, v := range o.vars {
		names = append(names, v.Name)
	}

	return names
}

// Has reports whether a variable with the given name exists.
func (o *Options) Has(name string) bool {
	for _, v := range o.vars {
		if v.Name == name {
			return true
		}
	}

	return false
}

// String renders the options in YAML flow style, e.g. "{a: [1, 2], b: [p, q]}".
func (o *Options) String() string {
	var sb strings.Builder

	sb.WriteString("{")
	for i, v := range o.vars {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(v.Name)
		sb.WriteString(": [")
		for j, val := range v.Values {
			if j > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(val.String())
		}
		sb.WriteString("]")
	}
	sb.WriteString("}")

	return sb.String()
}
