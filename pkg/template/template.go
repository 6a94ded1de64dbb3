// Package template substitutes `$(name)` placeholders in job templates.
package template

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/macropower/kbatch/pkg/vars"
)

// Mode selects how placeholders are substituted.
type Mode string

const (
	// ModeSequential replaces each variable's placeholder in its own pass,
	// in options order. Text introduced by one value is visible to the
	// passes of later variables.
	ModeSequential Mode = "sequential"

	// ModeSinglePass replaces all placeholders in one scan of the template.
	// Substituted text is never scanned again.
	ModeSinglePass Mode = "single-pass"
)

var (
	// ErrUnknownMode is returned for an unrecognized [Mode].
	ErrUnknownMode = errors.New("unknown substitution mode")

	// ErrUnresolved is returned by [Report.Err] when placeholders and
	// variables do not line up.
	ErrUnresolved = errors.New("unresolved template variables")

	// AllModes lists the valid [Mode] values.
	AllModes = []string{string(ModeSequential), string(ModeSinglePass)}

	placeholderRe = regexp.MustCompile(`\$\(([^()]*)\)`)
)

// ParseMode parses a [Mode] name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(s))
	if slices.Contains([]Mode{ModeSequential, ModeSinglePass}, m) {
		return m, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Placeholder returns the placeholder text for a variable name.
func Placeholder(name string) string {
	return "$(" + name + ")"
}

// Template is an immutable document containing `$(name)` placeholders.
type Template struct {
	content string
	mode    Mode
}

// Option configures a [Template].
type Option func(*Template)

// WithMode sets the substitution mode. The default is [ModeSequential].
func WithMode(m Mode) Option {
	return func(t *Template) {
		t.mode = m
	}
}

// New creates a [Template] from its content.
func New(content string, opts ...Option) *Template {
	t := &Template{content: content, mode: ModeSequential}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Load reads a [Template] from a file.
func Load(path string, opts ...Option) (*Template, error) {
	b, err := os.ReadFile(path) //nolint:gosec // G304: User-provided path.
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	return New(string(b), opts...), nil
}

// Content returns the raw template text.
func (t *Template) Content() string {
	return t.content
}

// Mode returns the substitution mode.
func (t *Template) Mode() Mode {
	return t.mode
}

// Render returns the template with every `$(name)` placeholder replaced by
// the string form of the matching value in c. Placeholders with no matching
// variable are left untouched.
func (t *Template) Render(c vars.Combination) string {
	if t.mode == ModeSinglePass {
		return renderSinglePass(t.content, c)
	}

	return renderSequential(t.content, c)
}

func renderSequential(s string, c vars.Combination) string {
	for _, a := range c {
		s = strings.ReplaceAll(s, Placeholder(a.Name), a.Value.String())
	}

	return s
}

func renderSinglePass(s string, c vars.Combination) string {
	if len(c) == 0 {
		return s
	}

	oldnew := make([]string, 0, 2*len(c))
	for _, a := range c {
		oldnew = append(oldnew, Placeholder(a.Name), a.Value.String())
	}

	return strings.NewReplacer(oldnew...).Replace(s)
}

// Placeholders returns the distinct placeholder names in the template, in
// order of first appearance.
func (t *Template) Placeholders() []string {
	var names []string

	for _, m := range placeholderRe.FindAllStringSubmatch(t.content, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}

	return names
}

// Report describes how a template's placeholders line up with a set of
// variable options.
type Report struct {
	// Unmatched holds placeholder names with no variable.
	Unmatched []string
	// Unused holds variable names with no placeholder.
	Unused []string
}

// OK reports whether every placeholder has a variable and vice versa.
func (r Report) OK() bool {
	return len(r.Unmatched) == 0 && len(r.Unused) == 0
}

// Err returns an error wrapping [ErrUnresolved] when the report is not OK.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}

	var parts []string
	if len(r.Unmatched) > 0 {
		parts = append(parts, "placeholders without variables: "+strings.Join(r.Unmatched, ", "))
	}

	if len(r.Unused) > 0 {
		parts = append(parts, "variables without placeholders: "+strings.Join(r.Unused, ", "))
	}

	return fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(parts, "; "))
}

// Check compares the template's placeholders against opts.
func (t *Template) Check(opts *vars.Options) Report {
	var r Report

	placeholders := t.Placeholders()
	for _, name := range placeholders {
		if !opts.Has(name) {
			r.Unmatched = append(r.Unmatched, name)
		}
	}

	for _, name := range opts.Names() {
		if !strings.Contains(t.content, Placeholder(name)) {
			r.Unused = append(r.Unused, name)
		}
	}

	return r
}
