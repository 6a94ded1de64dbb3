package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/macropower/kbatch/api/v1beta1/configs"
	"github.com/macropower/kbatch/pkg/batch"
	"github.com/macropower/kbatch/pkg/config"
	"github.com/macropower/kbatch/pkg/expr"
	"github.com/macropower/kbatch/pkg/log"
	"github.com/macropower/kbatch/pkg/submit"
	"github.com/macropower/kbatch/pkg/template"
	"github.com/macropower/kbatch/pkg/vars"
)

const (
	generateExamples = `  # Generate and submit one Job per combination of the options in vars.yaml:
  kbatch job.yaml vars.yaml

  # List the combinations without writing or submitting anything:
  kbatch job.yaml vars.yaml --dry-run

  # Only write the files:
  kbatch job.yaml vars.yaml --no-submit --output-dir jobs

  # Submit with a different command and delete files that were submitted:
  kbatch job.yaml vars.yaml --submit-command "kubectl apply -n ml -f" --cleanup

  # Only generate combinations with a small learning rate:
  kbatch job.yaml vars.yaml --filter 'vars.lr < 0.001'

  # Name files after a template instead of the variables:
  kbatch job.yaml vars.yaml --name 'train-$(lr)-$(batch_size)'

  # Regenerate whenever the template or options change:
  kbatch job.yaml vars.yaml --no-submit --watch`
)

// ErrWatchSubmit is returned when --watch is combined with submission.
var ErrWatchSubmit = errors.New("--watch requires --no-submit")

type GenerateArgs struct {
	*RootArgs

	TemplatePath  string
	VarsPath      string
	ConfigPath    string
	OutputDir     string
	Name          string
	Filter        string
	Substitution  string
	SubmitCommand string
	NoSubmit      bool
	Cleanup       bool
	DryRun        bool
	Strict        bool
	Watch         bool
	WriteConfig   bool
	ShowConfig    bool
}

func NewGenerateArgs(rootArgs *RootArgs) *GenerateArgs {
	return &GenerateArgs{
		RootArgs: rootArgs,
	}
}

func (ga *GenerateArgs) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&ga.OutputDir, "output-dir", "o", batch.DefaultOutputDir, "Directory for generated job files")
	flags.BoolVar(&ga.NoSubmit, "no-submit", false, "Only generate files, do not submit them")
	flags.BoolVar(&ga.Cleanup, "cleanup", false, "Delete job files after successful submission")
	flags.BoolVar(&ga.DryRun, "dry-run", false, "List the combinations without writing or submitting anything")
	flags.StringVar(&ga.Name, "name", "", "File name template, e.g. 'train-$(lr)' (default: job_<key>_<value>...)")
	flags.StringVar(&ga.Filter, "filter", "", "CEL expression selecting combinations, e.g. 'vars.lr < 0.001'")
	flags.BoolVar(&ga.Strict, "strict", false, "Fail on unmatched placeholders and unused variables")
	flags.StringVar(&ga.Substitution, "substitution", string(template.ModeSequential),
		fmt.Sprintf("Substitution mode, one of: %s", template.AllModes))
	flags.StringVar(&ga.SubmitCommand, "submit-command", "",
		`Submission command, the file path is appended (default from config: "kubectl create -f")`)
	flags.BoolVarP(&ga.Watch, "watch", "w", false, "Regenerate when the template or options change")
	flags.StringVar(&ga.ConfigPath, "config", "", "Path to the kbatch configuration file")
	flags.BoolVar(&ga.WriteConfig, "write-config", false, "Write the default configuration file and exit")
	flags.BoolVar(&ga.ShowConfig, "show-config", false, "Print the active configuration and exit")

	must(cmd.MarkFlagFilename("config", "yaml", "yml"))
	must(cmd.MarkFlagDirname("output-dir"))
	must(cmd.RegisterFlagCompletionFunc("substitution",
		cobra.FixedCompletions(template.AllModes, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewGenerateCmd(ga *GenerateArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate TEMPLATE VARS",
		Short:   "Default command, generate and submit one Job per combination",
		Example: generateExamples,
		Args: func(cmd *cobra.Command, args []string) error {
			if ga.WriteConfig || ga.ShowConfig {
				return cobra.NoArgs(cmd, args)
			}

			return cobra.ExactArgs(2)(cmd, args)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			if len(args) < 2 {
				return []cobra.Completion{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
			}

			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				ga.TemplatePath = args[0]
				ga.VarsPath = args[1]
			}

			return runGenerate(cmd, ga)
		},
		SilenceUsage: true,
	}
	ga.AddFlags(cmd)

	return cmd
}

func runGenerate(cmd *cobra.Command, ga *GenerateArgs) error {
	ctx := cmd.Context()
	logger := log.WithContext(ctx)

	configPath := ga.ConfigPath
	if configPath == "" {
		configPath = configs.GetPath()
	}

	if ga.WriteConfig {
		return configs.WriteDefault(configPath, false) //nolint:wrapcheck // Already wrapped.
	}

	cfg, err := loadConfig(configPath, ga.ConfigPath != "")
	if err != nil {
		return err
	}

	if ga.ShowConfig {
		logger.InfoContext(ctx, "active configuration", slog.String("path", configPath))

		b, err := cfg.MarshalYAML()
		if err != nil {
			return fmt.Errorf("marshal config yaml: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(b)
		if err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		return nil
	}

	ga.applyConfig(cmd.Flags(), cfg)

	if ga.Watch && !ga.NoSubmit && !ga.DryRun {
		return ErrWatchSubmit
	}

	out := cmd.OutOrStdout()
	run := func(ctx context.Context) error {
		return generate(ctx, out, ga, cfg)
	}

	if !ga.Watch {
		return run(ctx)
	}

	err = run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "generate", slog.Any("err", err))
	}

	logger.InfoContext(ctx, "watching for changes",
		slog.String("template", ga.TemplatePath),
		slog.String("vars", ga.VarsPath),
	)

	return batch.Watch(ctx, []string{ga.TemplatePath, ga.VarsPath}, run) //nolint:wrapcheck // Already wrapped.
}

// loadConfig loads the configuration file at path. A missing file is only
// an error when the path was given explicitly.
func loadConfig(path string, explicit bool) (*configs.Config, error) {
	_, err := os.Stat(path)
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no configuration file, using defaults", slog.String("path", path))

		cfg := configs.New()
		cfg.Submit.SetBaseEnv(os.Environ())

		return cfg, nil
	}

	cfg, err := config.Load(path, configs.New, configs.DefaultValidator)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	cfg.Submit.SetBaseEnv(os.Environ())

	return cfg, nil
}

// applyConfig fills flags that were set neither on the command line nor in
// the environment from the configuration file.
func (ga *GenerateArgs) applyConfig(flags *pflag.FlagSet, cfg *configs.Config) {
	g := cfg.Generate

	if !flags.Changed("output-dir") {
		ga.OutputDir = g.OutputDir
	}

	if !flags.Changed("substitution") {
		ga.Substitution = g.Substitution
	}

	if !flags.Changed("strict") {
		ga.Strict = g.Strict
	}

	if !flags.Changed("cleanup") {
		ga.Cleanup = g.Cleanup
	}
}

func generate(ctx context.Context, w io.Writer, ga *GenerateArgs, cfg *configs.Config) error {
	logger := log.WithContext(ctx)

	mode, err := template.ParseMode(ga.Substitution)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	tmpl, err := template.Load(ga.TemplatePath, template.WithMode(mode))
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	opts, err := vars.Load(ga.VarsPath)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	report := tmpl.Check(opts)
	if !report.OK() {
		if ga.Strict {
			return report.Err() //nolint:wrapcheck // Already descriptive.
		}

		logger.WarnContext(ctx, "template and variables do not match",
			slog.Any("unmatched_placeholders", report.Unmatched),
			slog.Any("unused_variables", report.Unused),
		)
	}

	names := batch.NameOptions{
		Prefix:    cfg.Generate.FilePrefix,
		Extension: cfg.Generate.FileExtension,
	}
	if ga.Name != "" {
		names.Name = template.New(ga.Name, template.WithMode(mode))
	}

	seq := opts.All()

	if ga.Filter != "" {
		f, err := expr.NewFilter(ga.Filter)
		if err != nil {
			return err //nolint:wrapcheck // Already wrapped.
		}

		seq = f.Seq(seq)
	}

	if ga.DryRun {
		return batch.DryRun(w, batch.Plan{ //nolint:wrapcheck // Already wrapped.
			Options:      opts,
			TemplatePath: ga.TemplatePath,
			Combinations: slices.Collect(seq),
			Names:        names,
		})
	}

	genOpts := []batch.Option{
		batch.WithOutputDir(ga.OutputDir),
		batch.WithNameOptions(names),
		batch.WithCleanup(ga.Cleanup),
		batch.WithLogger(logger),
	}

	if !ga.NoSubmit {
		s, err := newSubmitter(cfg, ga.SubmitCommand)
		if err != nil {
			return err
		}

		logger.DebugContext(ctx, "submitting with", slog.String("command", s.String()))
		genOpts = append(genOpts, batch.WithSubmitter(s))
	}

	g, err := batch.New(tmpl, genOpts...)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	_, err = fmt.Fprintf(w, "Generating jobs in %s...\n", g.OutputDir())
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	summary := g.Run(ctx, seq)

	return summary.Print(w, g.Submitting()) //nolint:wrapcheck // Already wrapped.
}

func newSubmitter(cfg *configs.Config, line string) (*submit.Command, error) {
	cmd := cfg.Submit.Clone()

	if line != "" {
		var err error

		cmd, err = submit.ParseCommandLine(cmd, line)
		if err != nil {
			return nil, err //nolint:wrapcheck // Already wrapped.
		}
	}

	s, err := submit.NewCommand(cmd)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	return s, nil
}
