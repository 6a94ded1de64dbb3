package argv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/macropower/kbatch/pkg/yaml"
)

// ErrCommandLen is returned when a command length is out of range.
var ErrCommandLen = errors.New("command length out of range")

// Container holds the command and args fields of a Kubernetes container.
type Container struct {
	Command []string `json:"command,omitempty" yaml:"command,omitempty"`
	Args    []string `json:"args,omitempty"    yaml:"args,omitempty"`
}

// NewContainer moves the first n elements of args into Command and the
// rest into Args.
func NewContainer(args []string, n int) (*Container, error) {
	if n < 0 || n > len(args) {
		return nil, fmt.Errorf("%w: %d (have %d args)", ErrCommandLen, n, len(args))
	}

	c := &Container{}
	if n > 0 {
		c.Command = args[:n]
	}

	if n < len(args) {
		c.Args = args[n:]
	}

	return c, nil
}

// WriteYAML writes c to w as a YAML document.
func (c *Container) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return enc.Close() //nolint:wrapcheck // Return the original error.
}

// WriteJSON writes c to w as indented JSON.
func (c *Container) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}
