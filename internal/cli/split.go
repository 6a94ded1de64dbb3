package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macropower/kbatch/api"
	"github.com/macropower/kbatch/pkg/argv"
)

const (
	splitExamples = `  # Turn a shell command into a container args list:
  kbatch split 'python train.py --lr 0.0001 --batch_size 32' --output yaml

  # Read a multi-line command (with \ continuations) from a file:
  kbatch split --file train.sh --command-len 1 --output yaml

  # Honor quotes and expand environment variables:
  echo 'python train.py --name "$RUN name"' | kbatch split --expand-env`
)

// Output formats for the split command.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

var (
	// AllOutputs lists the supported split output formats.
	AllOutputs = []string{OutputText, OutputYAML, OutputJSON}

	// ErrUnknownOutput is returned for an unsupported --output value.
	ErrUnknownOutput = errors.New("unknown output format")
)

type SplitArgs struct {
	File       string
	Output     string
	CommandLen int
	Shell      bool
	ExpandEnv  bool
}

func (sa *SplitArgs) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&sa.File, "file", "f", "", "Read the command from a file")
	flags.StringVarP(&sa.Output, "output", "o", OutputText, fmt.Sprintf("Output format, one of: %s", AllOutputs))
	flags.IntVar(&sa.CommandLen, "command-len", 0, "Number of leading tokens to put into the container command")
	flags.BoolVar(&sa.Shell, "shell", false, "Honor shell quoting and escapes instead of splitting on whitespace")
	flags.BoolVar(&sa.ExpandEnv, "expand-env", false, "Expand $VAR references (implies --shell)")

	must(cmd.MarkFlagFilename("file"))
	must(cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(AllOutputs, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewSplitCmd() *cobra.Command {
	sa := &SplitArgs{}

	cmd := &cobra.Command{
		Use:     "split [COMMAND]",
		Short:   "Split a command line into an argument list",
		Long:    "Split a command line into an argument list. The command is read from the argument, --file, or stdin.",
		Example: splitExamples,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := sa.readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			return sa.run(cmd.OutOrStdout(), input)
		},
		SilenceUsage: true,
	}
	sa.AddFlags(cmd)

	return cmd
}

func (sa *SplitArgs) readInput(stdin io.Reader, args []string) (string, error) {
	switch {
	case len(args) == 1 && sa.File != "":
		return "", errors.New("use either a COMMAND argument or --file")
	case len(args) == 1:
		return args[0], nil
	case sa.File != "":
		b, err := api.ReadFile(sa.File)
		if err != nil {
			return "", fmt.Errorf("read command: %w", err)
		}

		return string(b), nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}

	return string(b), nil
}

func (sa *SplitArgs) run(w io.Writer, input string) error {
	var (
		args []string
		err  error
	)

	switch {
	case sa.ExpandEnv:
		args, err = argv.Parse(input, argv.WithEnv(os.Getenv))
	case sa.Shell:
		args, err = argv.Parse(input)
	default:
		args = argv.Fields(input)
	}

	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	switch sa.Output {
	case OutputText:
		if sa.CommandLen != 0 {
			return fmt.Errorf("--command-len requires --output %s or %s", OutputYAML, OutputJSON)
		}

		if len(args) == 0 {
			return nil
		}

		_, err = fmt.Fprintln(w, strings.Join(args, "\n"))
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil

	case OutputYAML, OutputJSON:
		c, err := argv.NewContainer(args, sa.CommandLen)
		if err != nil {
			return err //nolint:wrapcheck // Already descriptive.
		}

		if sa.Output == OutputJSON {
			return c.WriteJSON(w) //nolint:wrapcheck // Already wrapped.
		}

		return c.WriteYAML(w) //nolint:wrapcheck // Already wrapped.
	}

	return fmt.Errorf("%w: %q", ErrUnknownOutput, sa.Output)
}
