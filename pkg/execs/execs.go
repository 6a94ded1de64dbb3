package execs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/macropower/kbatch/pkg/log"
)

type Executor struct {
	cmd       Command
	extraArgs []string
}

// NewExecutor creates an [Executor] that runs cmd with args appended to its
// configured arguments.
func NewExecutor(cmd Command, args ...string) Executor {
	return Executor{
		cmd:       cmd,
		extraArgs: args,
	}
}

// Args returns the full argument list.
func (e Executor) Args() []string {
	allArgs := append([]string{}, e.cmd.Args...)

	return append(allArgs, e.extraArgs...)
}

// Exec runs the command in dir and waits for it to exit.
//
// A non-nil [*Result] is returned whenever the process was started, even if
// it exited with a non-zero status, so callers can report its output.
func (e Executor) Exec(ctx context.Context, dir string) (*Result, error) {
	if e.cmd.Command == "" {
		return nil, ErrEmptyCommand
	}

	logger := log.WithContext(ctx).With(slog.String("command", e.String()))

	start := time.Now()

	//nolint:gosec // G204: Subprocess launched with a potential tainted input or cmd arguments.
	cmd := exec.CommandContext(ctx, e.cmd.Command, e.Args()...)
	cmd.Dir = dir
	cmd.Env = e.cmd.GetEnv()

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if cmd.ProcessState == nil && (errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("%w: %s: %w", ErrCommandNotFound, e.cmd.Command, err)
	}

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if err != nil {
		logger.DebugContext(ctx, "command failed",
			slog.Duration("duration", time.Since(start)),
			slog.Int("exit_code", result.ExitCode),
			slog.Any("err", err),
		)

		if cmd.ProcessState == nil {
			return nil, fmt.Errorf("%w: %w", ErrCommandExecution, err)
		}

		return result, fmt.Errorf("%w: %w", ErrCommandExecution, err)
	}

	logger.DebugContext(ctx, "command executed successfully",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (e Executor) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", e.cmd.Command, strings.Join(e.Args(), " ")))
}
