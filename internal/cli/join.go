package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/kbatch/pkg/argv"
)

const (
	joinExamples = `  # Print a container args list as one command line:
  kbatch join -- /code/train.py --lr 1e-4 --session_name th_rl1e-4_std

  # Quote arguments so the output can be pasted into a shell:
  kbatch join --quote -- echo 'hello world'`
)

func NewJoinCmd() *cobra.Command {
	var quote bool

	cmd := &cobra.Command{
		Use:     "join ARGS...",
		Short:   "Join an argument list into a single command line",
		Example: joinExamples,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := argv.Join(args)
			if quote {
				line = argv.JoinQuoted(args)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), line)
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVarP(&quote, "quote", "q", false, "Quote arguments for a POSIX shell")

	return cmd
}
