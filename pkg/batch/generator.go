package batch

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"

	"github.com/macropower/kbatch/pkg/log"
	"github.com/macropower/kbatch/pkg/submit"
	"github.com/macropower/kbatch/pkg/template"
	"github.com/macropower/kbatch/pkg/vars"
)

const (
	// DefaultOutputDir is the default directory for generated files.
	DefaultOutputDir = "batch_job"

	// FileMode is the permission set on generated files.
	FileMode os.FileMode = 0o644
)

// ErrNilTemplate is returned by [New] when no template is given.
var ErrNilTemplate = errors.New("template is required")

// Generator renders a template once per combination, writes each result to
// a file, and optionally submits it.
type Generator struct {
	tmpl      *template.Template
	submitter submit.Submitter
	logger    *slog.Logger
	names     NameOptions
	outputDir string
	cleanup   bool
}

// Option configures a [Generator].
type Option func(*Generator)

// WithOutputDir sets the directory generated files are written to.
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.outputDir = dir
	}
}

// WithSubmitter enables submission of each generated file. A nil
// [submit.Submitter] disables submission.
func WithSubmitter(s submit.Submitter) Option {
	return func(g *Generator) {
		g.submitter = s
	}
}

// WithCleanup removes each file after it was submitted successfully.
func WithCleanup(cleanup bool) Option {
	return func(g *Generator) {
		g.cleanup = cleanup
	}
}

// WithNameOptions sets how generated files are named.
func WithNameOptions(opts NameOptions) Option {
	return func(g *Generator) {
		g.names = opts
	}
}

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a [Generator] and its output directory.
func New(tmpl *template.Template, opts ...Option) (*Generator, error) {
	if tmpl == nil {
		return nil, ErrNilTemplate
	}

	g := &Generator{
		tmpl:      tmpl,
		outputDir: DefaultOutputDir,
		names:     DefaultNameOptions(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	err := os.MkdirAll(g.outputDir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return g, nil
}

// Submitting reports whether generated files are submitted.
func (g *Generator) Submitting() bool {
	return g.submitter != nil
}

// OutputDir returns the directory generated files are written to.
func (g *Generator) OutputDir() string {
	return g.outputDir
}

// Generate renders c and writes it to its file, returning the file path.
func (g *Generator) Generate(c vars.Combination) (string, error) {
	path := filepath.Join(g.outputDir, FileName(c, g.names))
	content := g.tmpl.Render(c)

	err := atomic.WriteFile(path, strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	// New files are created from a private temp file.
	err = os.Chmod(path, FileMode)
	if err != nil {
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}

	g.logger.Debug("wrote job file",
		slog.String("path", path),
		slog.String("size", humanize.Bytes(uint64(len(content)))),
	)

	return path, nil
}

// Run processes every combination in seq, in order. Errors for individual
// combinations are logged and counted; they do not stop the batch. Run
// stops early only when ctx is cancelled.
func (g *Generator) Run(ctx context.Context, seq iter.Seq[vars.Combination]) Summary {
	var s Summary

	ctx = log.NewContext(ctx, g.logger)
	seen := map[string]string{}

	for c := range seq {
		if ctx.Err() != nil {
			g.logger.WarnContext(ctx, "batch cancelled", slog.Int("processed", s.Total))
			s.Cancelled = true

			break
		}

		s.Total++
		jobCtx := log.WithJob(ctx, s.Total, c.String())
		logger := log.WithContext(jobCtx)

		path, err := g.Generate(c)
		if err != nil {
			logger.ErrorContext(ctx, "generate job", slog.Any("err", err))
			s.Errors++

			continue
		}

		if prev, ok := seen[path]; ok {
			logger.WarnContext(ctx, "file name collision, overwriting earlier job",
				slog.String("path", path),
				slog.String("previous_vars", prev),
			)
		}

		seen[path] = c.String()
		s.Files = append(s.Files, path)
		s.Generated++
		logger.InfoContext(ctx, "generated job", slog.String("path", path))

		if g.submitter == nil {
			continue
		}

		if !g.submit(jobCtx, path) {
			s.Failed++

			continue
		}

		s.Submitted++

		if g.cleanup {
			err := os.Remove(path)
			if err != nil {
				logger.WarnContext(ctx, "clean up job file", slog.String("path", path), slog.Any("err", err))
				s.CleanupErrors++

				continue
			}

			logger.InfoContext(ctx, "cleaned up job file", slog.String("path", path))
		}
	}

	return s
}

func (g *Generator) submit(ctx context.Context, path string) bool {
	logger := log.WithContext(ctx)

	result, err := g.submitter.Submit(ctx, path)
	if err != nil {
		attrs := []any{slog.String("path", path), slog.Any("err", err)}
		if result != nil {
			attrs = append(attrs,
				slog.Int("exit_code", result.ExitCode),
				slog.String("stderr", strings.TrimSpace(result.Stderr)),
			)
		}

		logger.ErrorContext(ctx, "submit job", attrs...)

		return false
	}

	attrs := []any{slog.String("path", path)}
	if result != nil {
		attrs = append(attrs, slog.String("output", strings.TrimSpace(result.Stdout)))
	}

	logger.InfoContext(ctx, "submitted job", attrs...)

	return true
}
