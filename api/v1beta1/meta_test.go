package v1beta1_test

import (
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kbatch/api/v1beta1"
)

func TestTypeMeta_CheckType(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		tm      v1beta1.TypeMeta
		wantErr bool
	}{
		"valid": {
			tm: v1beta1.TypeMeta{APIVersion: v1beta1.APIVersion, Kind: "Configuration"},
		},
		"old api version": {
			tm:      v1beta1.TypeMeta{APIVersion: "kat.jacobcolvin.com/v1beta1", Kind: "Configuration"},
			wantErr: true,
		},
		"wrong kind": {
			tm:      v1beta1.TypeMeta{APIVersion: v1beta1.APIVersion, Kind: "Policy"},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.tm.APIVersion, tc.tm.GetAPIVersion())
			assert.Equal(t, tc.tm.Kind, tc.tm.GetKind())

			err := tc.tm.CheckType("Configuration")
			if tc.wantErr {
				require.ErrorIs(t, err, v1beta1.ErrUnknownType)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func newSchema(props ...string) *jsonschema.Schema {
	jss := &jsonschema.Schema{Properties: jsonschema.NewProperties()}
	for _, p := range props {
		jss.Properties.Set(p, &jsonschema.Schema{Type: "string"})
	}

	return jss
}

func TestExtendSchemaWithEnums(t *testing.T) {
	t.Parallel()

	jss := newSchema("apiVersion", "kind")
	v1beta1.ExtendSchemaWithEnums(jss, []string{"v1", "v1beta1"}, []string{"Configuration"})

	apiVersion, ok := jss.Properties.Get("apiVersion")
	require.True(t, ok)
	require.Len(t, apiVersion.OneOf, 2)
	assert.Equal(t, "v1beta1", apiVersion.OneOf[1].Const)

	kind, ok := jss.Properties.Get("kind")
	require.True(t, ok)
	require.Len(t, kind.OneOf, 1)
	assert.Equal(t, "Configuration", kind.OneOf[0].Const)

	assert.Panics(t, func() {
		v1beta1.ExtendSchemaWithEnums(newSchema("kind"), []string{"v1"}, []string{"K"})
	})
	assert.Panics(t, func() {
		v1beta1.ExtendSchemaWithEnums(newSchema("apiVersion"), []string{"v1"}, []string{"K"})
	})
}
