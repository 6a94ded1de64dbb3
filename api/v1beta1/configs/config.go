// Package configs provides the Configuration kind for kbatch.
package configs

import (
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/kbatch/api"
	"github.com/macropower/kbatch/api/v1beta1"
	"github.com/macropower/kbatch/pkg/batch"
	"github.com/macropower/kbatch/pkg/execs"
	"github.com/macropower/kbatch/pkg/submit"
	"github.com/macropower/kbatch/pkg/template"
	"github.com/macropower/kbatch/pkg/yaml"
)

//go:generate sh -c "cd ../../.. && go run ./internal/schemagen -o api/v1beta1/configs/configs.v1beta1.json"

// Kind is the kind of the global configuration.
const Kind = "Configuration"

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for global configurations.
	ValidKinds = []string{Kind}

	// DefaultValidator validates global configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/configs.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the global kbatch configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Generate contains defaults for the generate command.
	Generate *Generate `json:"generate,omitempty" jsonschema:"title=Generate"`
	// Submit is the command used to submit each generated job file. The file
	// path is appended as the last argument.
	Submit           *execs.Command `json:"submit,omitempty" jsonschema:"title=Submit"`
	v1beta1.TypeMeta `json:",inline"`
}

// Generate contains defaults for the generate command. Flags take
// precedence over these values.
type Generate struct {
	// OutputDir is the directory that job files are written to.
	OutputDir string `json:"outputDir,omitempty" jsonschema:"title=Output Directory"`
	// FilePrefix is prepended to generated file names.
	FilePrefix string `json:"filePrefix,omitempty" jsonschema:"title=File Prefix"`
	// FileExtension is appended to generated file names.
	FileExtension string `json:"fileExtension,omitempty" jsonschema:"title=File Extension"`
	// Substitution selects how placeholders are replaced.
	Substitution string `json:"substitution,omitempty" jsonschema:"title=Substitution,enum=sequential,enum=single-pass"`
	// Strict turns unmatched placeholders and unused variables into errors.
	Strict bool `json:"strict,omitempty" jsonschema:"title=Strict"`
	// Cleanup deletes job files after they were submitted successfully.
	Cleanup bool `json:"cleanup,omitempty" jsonschema:"title=Cleanup"`
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// NewGenerate returns the default [Generate] settings.
func NewGenerate() *Generate {
	return &Generate{
		OutputDir:     batch.DefaultOutputDir,
		FilePrefix:    batch.DefaultPrefix,
		FileExtension: batch.DefaultExtension,
		Substitution:  string(template.ModeSequential),
	}
}

// EnsureDefaults initializes nil or empty fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Generate == nil {
		c.Generate = NewGenerate()
	} else {
		c.Generate.EnsureDefaults()
	}

	if c.Submit == nil {
		cmd := submit.DefaultCommand()
		c.Submit = &cmd
	}
}

// EnsureDefaults fills empty fields with their default values.
func (g *Generate) EnsureDefaults() {
	d := NewGenerate()

	if g.OutputDir == "" {
		g.OutputDir = d.OutputDir
	}

	if g.FilePrefix == "" {
		g.FilePrefix = d.FilePrefix
	}

	if g.FileExtension == "" {
		g.FileExtension = d.FileExtension
	}

	if g.Substitution == "" {
		g.Substitution = d.Substitution
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := c.CheckType(ValidKinds...)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	if c.Generate != nil {
		_, err = template.ParseMode(c.Generate.Substitution)
		if err != nil {
			return fmt.Errorf("validate generate config: %w", err)
		}
	}

	if c.Submit != nil {
		if c.Submit.Command == "" {
			return fmt.Errorf("validate submit config: %w", execs.ErrEmptyCommand)
		}

		err = c.Submit.CompilePatterns()
		if err != nil {
			return fmt.Errorf("validate submit config: %w", err)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// WriteDefault writes the embedded default config.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// GetPath returns the path to the global configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}
