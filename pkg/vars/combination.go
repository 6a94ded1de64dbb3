package vars

import (
	"iter"
	"strings"
)

// Assignment binds a single value to a variable name.
type Assignment struct {
	Name  string
	Value Value
}

// Combination is one value per variable, in options order.
type Combination []Assignment

// Get returns the value assigned to name.
func (c Combination) Get(name string) (Value, bool) {
	for _, a := range c {
		if a.Name == name {
			return a.Value, true
		}
	}

	return Value{}, false
}

// Strings returns a name -> string value map.
func (c Combination) Strings() map[string]string {
	m := make(map[string]string, len(c))
	for _, a := range c {
		m[a.Name] = a.Value.String()
	}

	return m
}

// Raw returns a name -> typed value map.
func (c Combination) Raw() map[string]any {
	m := make(map[string]any, len(c))
	for _, a := range c {
		m[a.Name] = a.Value.Raw()
	}

	return m
}

// String renders the combination in YAML flow style, e.g. "{a: 1, b: p}".
func (c Combination) String() string {
	var sb strings.Builder

	sb.WriteString("{")
	for i, a := range c {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(a.Name)
		sb.WriteString(": ")
		sb.WriteString(a.Value.String())
	}
	sb.WriteString("}")

	return sb.String()
}

// Count returns the number of combinations: the product of all list
// lengths. It is 1 when there are no variables, and 0 when any list is empty.
func (o *Options) Count() int {
	n := 1
	for _, v := range o.vars {
		n *= len(v.Values)
	}

	return n
}

// All yields every combination exactly once, in Cartesian product order:
// the last variable varies fastest. Each yielded [Combination] is a fresh
// slice that the caller may keep.
func (o *Options) All() iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		for _, v := range o.vars {
			if len(v.Values) == 0 {
				return
			}
		}

		idx := make([]int, len(o.vars))
		for {
			c := make(Combination, len(o.vars))
			for i, v := range o.vars {
				c[i] = Assignment{Name: v.Name, Value: v.Values[idx[i]]}
			}

			if !yield(c) {
				return
			}

			// Advance the odometer from the right.
			i := len(idx) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(o.vars[i].Values) {
					break
				}

				idx[i] = 0
			}

			if i < 0 {
				return
			}
		}
	}
}

// Combinations returns all combinations eagerly. See [Options.All].
func (o *Options) Combinations() []Combination {
	out := make([]Combination, 0, o.Count())
	for c := range o.All() {
		out = append(out, c)
	}

	return out
}
