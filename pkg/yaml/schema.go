package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator reflects a JSON schema from a Go value.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	reflector *jsonschema.Reflector
	value     any
	base      string
	dirs      []string
}

// NewSchemaGenerator creates a [SchemaGenerator] for v. Doc comments of the
// Go packages in dirs (relative to the module root, whose import path is
// base) become schema descriptions.
func NewSchemaGenerator(v any, base string, dirs ...string) *SchemaGenerator {
	return &SchemaGenerator{
		reflector: &jsonschema.Reflector{
			ExpandedStruct: true,
		},
		value: v,
		base:  base,
		dirs:  dirs,
	}
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	for _, dir := range g.dirs {
		err := g.reflector.AddGoComments(g.base, dir)
		if err != nil {
			return nil, fmt.Errorf("add go comments from %s: %w", dir, err)
		}
	}

	jss := g.reflector.Reflect(g.value)

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}
