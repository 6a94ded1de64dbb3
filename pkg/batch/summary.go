package batch

import (
	"fmt"
	"io"
)

// Summary reports the outcome of a batch.
type Summary struct {
	// Files holds the paths of all generated files, including files that
	// were later removed by cleanup.
	Files []string
	// Total is the number of combinations processed.
	Total int
	// Generated is the number of files written.
	Generated int
	// Submitted is the number of successful submissions.
	Submitted int
	// Failed is the number of failed submissions.
	Failed int
	// Errors is the number of combinations whose file could not be written.
	Errors int
	// CleanupErrors is the number of files that could not be removed after a
	// successful submission.
	CleanupErrors int
	// Cancelled is set when the batch stopped early because its context
	// was cancelled.
	Cancelled bool
}

// Print writes a human-readable summary to w.
func (s Summary) Print(w io.Writer, submitting bool) error {
	lines := []string{
		"=== Summary ===",
		fmt.Sprintf("Total jobs generated: %d", s.Generated),
	}
	if s.Errors > 0 {
		lines = append(lines, fmt.Sprintf("Generation errors: %d", s.Errors))
	}

	if submitting {
		lines = append(lines,
			fmt.Sprintf("Successfully submitted: %d", s.Submitted),
			fmt.Sprintf("Failed submissions: %d", s.Failed),
		)
	}

	if s.CleanupErrors > 0 {
		lines = append(lines, fmt.Sprintf("Cleanup errors: %d", s.CleanupErrors))
	}

	if s.Cancelled {
		lines = append(lines, fmt.Sprintf("Cancelled after %d combinations", s.Total))
	}

	for _, line := range lines {
		_, err := fmt.Fprintln(w, line)
		if err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	return nil
}
