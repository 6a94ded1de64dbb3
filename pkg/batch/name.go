package batch

import (
	"slices"
	"strings"

	"github.com/macropower/kbatch/pkg/template"
	"github.com/macropower/kbatch/pkg/vars"
)

const (
	DefaultPrefix    = "job_"
	DefaultExtension = ".yaml"
)

var pathSeparators = strings.NewReplacer("/", "-", `\`, "-")

// NameOptions controls how generated files are named.
type NameOptions struct {
	// Name, when set, is rendered against each combination to produce the
	// file name (without extension), e.g. "train-$(lr)".
	Name *template.Template
	// Prefix is prepended to generated names. Defaults to [DefaultPrefix].
	Prefix string
	// Extension is appended to every name. Defaults to [DefaultExtension].
	Extension string
}

// DefaultNameOptions returns [NameOptions] with the default prefix and extension.
func DefaultNameOptions() NameOptions {
	return NameOptions{
		Prefix:    DefaultPrefix,
		Extension: DefaultExtension,
	}
}

// FileName returns the file name for c.
//
// Without a custom name the result is the prefix followed by `key_value`
// pairs sorted by key and joined with underscores, e.g. "job_a_1_b_p.yaml".
// Path separators in the result are replaced with "-". Different
// combinations may produce the same name.
func FileName(c vars.Combination, opts NameOptions) string {
	if opts.Name != nil {
		return pathSeparators.Replace(opts.Name.Render(c)) + opts.Extension
	}

	sorted := slices.Clone(c)
	slices.SortStableFunc(sorted, func(a, b vars.Assignment) int {
		return strings.Compare(a.Name, b.Name)
	})

	pairs := make([]string, 0, len(sorted))
	for _, a := range sorted {
		pairs = append(pairs, a.Name+"_"+a.Value.String())
	}

	return pathSeparators.Replace(opts.Prefix+strings.Join(pairs, "_")) + opts.Extension
}
