package expr

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/google/cel-go/cel"

	"github.com/macropower/kbatch/pkg/vars"
)

// ErrNotBool is returned when a filter expression does not evaluate to a bool.
var ErrNotBool = errors.New("expression did not evaluate to a bool")

var defaultEnv = MustNewEnvironment()

// Filter selects combinations with a CEL expression.
type Filter struct {
	program    cel.Program
	expression string
}

// NewFilter compiles expression into a [Filter].
func NewFilter(expression string) (*Filter, error) {
	program, err := defaultEnv.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expression, err)
	}

	return &Filter{program: program, expression: expression}, nil
}

// Match reports whether c satisfies the filter.
func (f *Filter) Match(c vars.Combination) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"vars": c.Raw(),
		"text": c.Strings(),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.expression, err)
	}

	match, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %v", ErrNotBool, f.expression, out.Type())
	}

	return match, nil
}

// Seq yields the combinations of seq that match the filter. Combinations
// for which the expression fails are logged and skipped.
func (f *Filter) Seq(seq iter.Seq[vars.Combination]) iter.Seq[vars.Combination] {
	return func(yield func(vars.Combination) bool) {
		for c := range seq {
			match, err := f.Match(c)
			if err != nil {
				slog.Warn("skip combination", slog.String("vars", c.String()), slog.Any("err", err))

				continue
			}

			if match && !yield(c) {
				return
			}
		}
	}
}

func (f *Filter) String() string {
	return f.expression
}
