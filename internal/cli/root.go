package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/kbatch/pkg/log"
	"github.com/macropower/kbatch/pkg/version"
)

const (
	cmdName = "kbatch"
	cmdDesc = `Generate a batch of Kubernetes Jobs from a template and variable options, and submit them.`
)

type RootArgs struct {
	LogLevel  string
	LogFormat string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
}

// NewRootCmd creates the kbatch command. Without a subcommand it behaves
// like `kbatch generate`.
func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	genArgs := NewGenerateArgs(args)

	genCmd := NewGenerateCmd(genArgs)
	cmd := &cobra.Command{
		Use:               cmdName + " TEMPLATE VARS",
		Short:             cmdDesc,
		Example:           generateExamples,
		PersistentPreRunE: setupLogging(args),
		ValidArgsFunction: genCmd.ValidArgsFunction,
		Args:              genCmd.Args,
		RunE:              genCmd.RunE,
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)
	genArgs.AddFlags(cmd)
	cmd.AddCommand(genCmd, NewSplitCmd(), NewJoinCmd())

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		logger := slog.New(logHandler)
		slog.SetDefault(logger)
		cmd.SetContext(log.NewContext(cmd.Context(), logger))

		logger.Debug("build info", slog.String("version", version.Info()))

		return nil
	}
}
