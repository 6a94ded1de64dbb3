// Package submit sends generated job files to a cluster through an external
// command-line tool.
package submit

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/macropower/kbatch/pkg/argv"
	"github.com/macropower/kbatch/pkg/execs"
)

var (
	// ErrToolNotFound is returned when the submission tool is not installed.
	ErrToolNotFound = errors.New("submission tool not found")

	// ErrSubmit is returned when the submission tool exits with an error.
	ErrSubmit = errors.New("submit")
)

// Submitter submits a single job file.
type Submitter interface {
	Submit(ctx context.Context, path string) (*execs.Result, error)
}

// InheritAllPattern matches every environment variable name.
const InheritAllPattern = ".*"

// DefaultCommand returns the default submission command: `kubectl create -f`.
// The whole caller environment is inherited, so proxy settings and the
// variables read by credential plugins reach kubectl. Narrower envFrom
// patterns can be set through the config file.
func DefaultCommand() execs.Command {
	cmd := execs.NewCommand(os.Environ())
	cmd.Command = "kubectl"
	cmd.Args = []string{"create", "-f"}
	cmd.AddEnvFrom([]execs.EnvFromSource{
		{CallerRef: &execs.CallerRef{Pattern: InheritAllPattern}},
	})

	return cmd
}

// Command is a [Submitter] that runs an [execs.Command] with the job file
// path appended as the last argument.
type Command struct {
	cmd execs.Command
	dir string
}

// Option configures a [Command].
type Option func(*Command)

// WithDir sets the working directory of the submission tool.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.dir = dir
	}
}

// NewCommand creates a [Command] submitter.
func NewCommand(cmd execs.Command, opts ...Option) (*Command, error) {
	if cmd.Command == "" {
		return nil, execs.ErrEmptyCommand
	}

	err := cmd.CompilePatterns()
	if err != nil {
		return nil, fmt.Errorf("submit command: %w", err)
	}

	c := &Command{cmd: cmd}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ParseCommandLine replaces the program and arguments of base with a
// shell-style command line such as "kubectl apply -n jobs -f". The
// environment settings of base are kept. Pipes, redirects and other shell
// operators are rejected with [argv.ErrUnsupportedOperator].
func ParseCommandLine(base execs.Command, line string) (execs.Command, error) {
	words, err := argv.Parse(line)
	if err != nil {
		return execs.Command{}, fmt.Errorf("parse submit command %q: %w", line, err)
	}

	if len(words) == 0 {
		return execs.Command{}, execs.ErrEmptyCommand
	}

	cmd := base.Clone()
	cmd.Command = words[0]
	cmd.Args = words[1:]

	return cmd, nil
}

// Submit runs the submission tool for path. The returned [*execs.Result]
// is non-nil whenever the tool ran, including when it failed.
func (c *Command) Submit(ctx context.Context, path string) (*execs.Result, error) {
	result, err := execs.NewExecutor(c.cmd, path).Exec(ctx, c.dir)
	if errors.Is(err, execs.ErrCommandNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrToolNotFound, err)
	}

	if err != nil {
		return result, fmt.Errorf("%w %s: %w", ErrSubmit, path, err)
	}

	return result, nil
}

func (c *Command) String() string {
	return c.cmd.String()
}
