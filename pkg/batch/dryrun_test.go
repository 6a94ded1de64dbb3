package batch_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kbatch/pkg/batch"
)

func TestDryRun(t *testing.T) {
	t.Parallel()

	opts := scenarioOptions()

	var buf bytes.Buffer

	err := batch.DryRun(&buf, batch.Plan{
		TemplatePath: "job.yaml",
		Options:      opts,
		Combinations: opts.Combinations(),
		Names:        batch.DefaultNameOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, `=== DRY RUN MODE ===
Template file: job.yaml
Variable options: {a: [1, 2], b: [p, q]}
Total combinations: 4

Combinations that would be generated:
  1. {a: 1, b: p} -> job_a_1_b_p.yaml
  2. {a: 1, b: q} -> job_a_1_b_q.yaml
  3. {a: 2, b: p} -> job_a_2_b_p.yaml
  4. {a: 2, b: q} -> job_a_2_b_q.yaml
`, buf.String())
}
