package api_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kbatch/api"
)

//nolint:paralleltest // Sets environment variables.
func TestGetConfigPath(t *testing.T) {
	tcs := map[string]struct {
		xdg  string
		home string
		want string
	}{
		"xdg set": {
			xdg:  "/custom/config",
			home: "/test/home",
			want: "/custom/config/kbatch/config.yaml",
		},
		"xdg empty": {
			home: "/test/home",
			want: "/test/home/.config/kbatch/config.yaml",
		},
		"nothing set": {
			want: filepath.Join(os.TempDir(), "kbatch", "config.yaml"), //nolint:usetesting // Needs to equal host.
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tc.xdg)
			t.Setenv("HOME", tc.home)

			assert.Equal(t, tc.want, api.GetConfigPath("config.yaml"))
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "vars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: [1]\n"), 0o600))

	data, err := api.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: [1]\n", string(data))

	_, err = api.ReadFile(dir)
	require.ErrorContains(t, err, "path is a directory")

	_, err = api.ReadFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalYAML(t *testing.T) {
	t.Parallel()

	b, err := api.MarshalYAML(map[string]any{"outputDir": "out"})
	require.NoError(t, err)
	assert.Equal(t, "outputDir: out\n", string(b))
}

func TestWriteDefaultFile(t *testing.T) {
	t.Parallel()

	t.Run("new file in nested dir", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		require.NoError(t, api.WriteDefaultFile(path, []byte("default"), false, "configuration"))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "default", string(got))
	})

	t.Run("existing file is kept", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mine"), 0o600))
		require.NoError(t, api.WriteDefaultFile(path, []byte("default"), false, "configuration"))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "mine", string(got))
	})

	t.Run("force backs up", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mine"), 0o600))
		require.NoError(t, api.WriteDefaultFile(path, []byte("default"), true, "configuration"))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "default", string(got))

		backups, err := filepath.Glob(filepath.Join(dir, "config.yaml.*.old"))
		require.NoError(t, err)
		require.Len(t, backups, 1)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		err := api.WriteDefaultFile(t.TempDir(), []byte("default"), true, "configuration")
		require.ErrorContains(t, err, "path is a directory")
	})
}
