package batch

import (
	"fmt"
	"io"

	"github.com/macropower/kbatch/pkg/vars"
)

// Plan describes a batch without running it.
type Plan struct {
	Options      *vars.Options
	TemplatePath string
	Combinations []vars.Combination
	Names        NameOptions
}

// DryRun writes the plan to w: the template, the variable options, and every
// combination with the file name it would produce. Nothing is written to
// disk.
func DryRun(w io.Writer, p Plan) error {
	lines := []string{
		"=== DRY RUN MODE ===",
		"Template file: " + p.TemplatePath,
		"Variable options: " + p.Options.String(),
		fmt.Sprintf("Total combinations: %d", len(p.Combinations)),
		"",
		"Combinations that would be generated:",
	}

	for i, c := range p.Combinations {
		lines = append(lines, fmt.Sprintf("  %d. %s -> %s", i+1, c, FileName(c, p.Names)))
	}

	for _, line := range lines {
		_, err := fmt.Fprintln(w, line)
		if err != nil {
			return fmt.Errorf("write dry run: %w", err)
		}
	}

	return nil
}
