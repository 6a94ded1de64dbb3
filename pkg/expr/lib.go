package expr

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		// Typed option values, e.g. vars.lr < 0.001.
		cel.Variable("vars", cel.MapType(cel.StringType, cel.DynType)),
		// Literal option text, e.g. text.lr == "1e-4".
		cel.Variable("text", cel.MapType(cel.StringType, cel.StringType)),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}
