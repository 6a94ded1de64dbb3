package vars_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kbatch/pkg/vars"
	"github.com/macropower/kbatch/pkg/yaml"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input     string
		wantNames []string
		wantVals  map[string][]string
		wantErr   error
	}{
		"block and flow sequences": {
			input: `lr: [0.001, 1e-4]
batch_size:
  - 32
  - 64
`,
			wantNames: []string{"lr", "batch_size"},
			wantVals: map[string][]string{
				"lr":         {"0.001", "1e-4"},
				"batch_size": {"32", "64"},
			},
		},
		"key order preserved": {
			input:     "z: [1]\na: [2]\nm: [3]\n",
			wantNames: []string{"z", "a", "m"},
			wantVals: map[string][]string{
				"z": {"1"},
				"a": {"2"},
				"m": {"3"},
			},
		},
		"quoted strings are unquoted": {
			input:     `name: ["foo bar", 'baz']`,
			wantNames: []string{"name"},
			wantVals: map[string][]string{
				"name": {"foo bar", "baz"},
			},
		},
		"single variable": {
			input:     `a: [x]`,
			wantNames: []string{"a"},
			wantVals: map[string][]string{
				"a": {"x"},
			},
		},
		"empty list": {
			input:     "a: []\nb: [1]\n",
			wantNames: []string{"a", "b"},
			wantVals: map[string][]string{
				"a": {},
				"b": {"1"},
			},
		},
		"tagged values": {
			input:     `a: [!!str 5, true]`,
			wantNames: []string{"a"},
			wantVals: map[string][]string{
				"a": {"5", "true"},
			},
		},
		"literal text kept": {
			input:     `a: [True, 1.0e-4, 0.10]`,
			wantNames: []string{"a"},
			wantVals: map[string][]string{
				"a": {"True", "1.0e-4", "0.10"},
			},
		},
		"empty document": {
			input:   "",
			wantErr: vars.ErrEmptyOptions,
		},
		"scalar instead of list": {
			input:   "a: 5\n",
			wantErr: vars.ErrInvalidOptions,
		},
		"nested list": {
			input:   "a: [[1, 2]]\n",
			wantErr: vars.ErrInvalidOptions,
		},
		"top-level list": {
			input:   "- a\n- b\n",
			wantErr: vars.ErrInvalidOptions,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts, err := vars.Parse([]byte(tc.input))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantNames, opts.Names())

			for _, v := range opts.Variables() {
				got := []string{}
				for _, val := range v.Values {
					got = append(got, val.String())
				}

				assert.Equal(t, tc.wantVals[v.Name], got, v.Name)
			}
		})
	}
}

func TestParse_Raw(t *testing.T) {
	t.Parallel()

	opts, err := vars.Parse([]byte(`a: [1, 0.5, true, foo, null]`))
	require.NoError(t, err)

	vals := opts.Variables()[0].Values
	require.Len(t, vals, 5)

	assert.Equal(t, int64(1), vals[0].Raw())
	assert.InDelta(t, 0.5, vals[1].Raw(), 0)
	assert.Equal(t, true, vals[2].Raw())
	assert.Equal(t, "foo", vals[3].Raw())
	assert.Nil(t, vals[4].Raw())
	assert.Equal(t, "null", vals[4].String())
}

func TestParse_ErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := vars.Parse([]byte("a: [1]\nb: 2\n"))
	require.Error(t, err)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	require.NotNil(t, yamlErr.Token)

	line, _ := yaml.Position(yamlErr.Token)
	assert.Equal(t, 2, line)
	assert.Contains(t, err.Error(), `variable "b"`)
}

func TestParse_DuplicateKey(t *testing.T) {
	t.Parallel()

	_, err := vars.Parse([]byte("a: [1]\na: [2]\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	good := filepath.Join(dir, "vars.yaml")
	require.NoError(t, os.WriteFile(good, []byte("a: [1, 2]\n"), 0o600))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("a: 1\n"), 0o600))

	opts, err := vars.Load(good)
	require.NoError(t, err)
	assert.Equal(t, 2, opts.Count())

	_, err = vars.Load(bad)
	require.ErrorIs(t, err, vars.ErrInvalidOptions)
	assert.Contains(t, err.Error(), bad)

	_, err = vars.Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestNewOptions_Duplicate(t *testing.T) {
	t.Parallel()

	_, err := vars.NewOptions(vars.Strings("a", "1"), vars.Strings("a", "2"))
	require.ErrorIs(t, err, vars.ErrInvalidOptions)
}

func TestOptions_String(t *testing.T) {
	t.Parallel()

	opts := vars.MustNewOptions(vars.Strings("a", "1", "2"), vars.Strings("b", "p", "q"))
	assert.Equal(t, "{a: [1, 2], b: [p, q]}", opts.String())
	assert.True(t, opts.Has("b"))
	assert.False(t, opts.Has("c"))
}
