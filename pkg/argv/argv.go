package argv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

var (
	// ErrInvalidCommand is returned when a command line cannot be parsed.
	ErrInvalidCommand = errors.New("invalid command line")

	// ErrUnsupportedOperator is returned when a command line contains a
	// shell control operator such as a pipe or redirect.
	ErrUnsupportedOperator = errors.New("unsupported shell operator")
)

var continuation = strings.NewReplacer("\\\r\n", " ", "\\\n", " ")

// Fields removes backslash line continuations from s and splits it around
// runs of whitespace. Quotes have no special meaning.
func Fields(s string) []string {
	return strings.Fields(continuation.Replace(s))
}

// ParseOption configures [Parse].
type ParseOption func(*shellwords.Parser)

// WithEnv expands $VAR and ${VAR} references using getenv.
// If getenv is nil, [os.Getenv] is used.
func WithEnv(getenv func(string) string) ParseOption {
	return func(p *shellwords.Parser) {
		p.ParseEnv = true
		p.Getenv = getenv
	}
}

// Parse splits s into arguments the way a POSIX shell would, honoring
// quotes, escapes and line continuations.
func Parse(s string, opts ...ParseOption) ([]string, error) {
	p := shellwords.NewParser()
	for _, opt := range opts {
		opt(p)
	}

	args, err := p.Parse(continuation.Replace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	if p.Position >= 0 {
		return nil, fmt.Errorf("%w at offset %d", ErrUnsupportedOperator, p.Position)
	}

	return args, nil
}

// Join joins args with single spaces, without quoting.
func Join(args []string) string {
	return strings.Join(args, " ")
}

// JoinQuoted joins args with single spaces, quoting any argument that a
// shell would otherwise split or interpret. The result round-trips through
// [Parse].
func JoinQuoted(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}

	return strings.Join(quoted, " ")
}

// Quote returns s quoted for a POSIX shell. Strings made up only of safe
// characters are returned unchanged.
func Quote(s string) string {
	if s == "" {
		return "''"
	}

	if strings.IndexFunc(s, unsafe) < 0 {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func unsafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}

	return !strings.ContainsRune("_-+=@%:,./", r)
}
