package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kbatch/api/v1beta1/configs"
	"github.com/macropower/kbatch/pkg/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		check   func(t *testing.T, cfg *configs.Config)
		content string
		errPos  string
		wantErr bool
	}{
		"type meta only": {
			content: "apiVersion: kbatch.jacobcolvin.com/v1beta1\nkind: Configuration\n",
			check: func(t *testing.T, cfg *configs.Config) {
				t.Helper()

				assert.Equal(t, configs.NewGenerate(), cfg.Generate)
				assert.Equal(t, "kubectl", cfg.Submit.Command)
			},
		},
		"overrides": {
			content: `apiVersion: kbatch.jacobcolvin.com/v1beta1
kind: Configuration
generate:
  outputDir: jobs
  substitution: single-pass
  strict: true
submit:
  command: kubectl
  args: [apply, -n, ml, -f]
`,
			check: func(t *testing.T, cfg *configs.Config) {
				t.Helper()

				assert.Equal(t, "jobs", cfg.Generate.OutputDir)
				assert.Equal(t, "job_", cfg.Generate.FilePrefix)
				assert.Equal(t, "single-pass", cfg.Generate.Substitution)
				assert.True(t, cfg.Generate.Strict)
				assert.Equal(t, []string{"apply", "-n", "ml", "-f"}, cfg.Submit.Args)
			},
		},
		"unknown field": {
			content: "apiVersion: kbatch.jacobcolvin.com/v1beta1\nkind: Configuration\nui: {}\n",
			wantErr: true,
		},
		"bad substitution": {
			content: "apiVersion: kbatch.jacobcolvin.com/v1beta1\nkind: Configuration\ngenerate:\n  substitution: recursive\n",
			wantErr: true,
			errPos:  ":[4:3] ",
		},
		"wrong api version": {
			content: "apiVersion: kat.jacobcolvin.com/v1beta1\nkind: Configuration\n",
			wantErr: true,
			errPos:  ":[1:1] ",
		},
		"invalid yaml": {
			content: "apiVersion: [\n",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, tc.content)

			cfg, err := config.Load(path, configs.New, configs.DefaultValidator)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), path)

				if tc.errPos != "" {
					assert.Contains(t, err.Error(), tc.errPos)
				}

				return
			}

			require.NoError(t, err)
			require.NoError(t, cfg.Validate())
			tc.check(t, cfg)
		})
	}
}

func TestNewLoaderFromFile(t *testing.T) {
	t.Parallel()

	_, err := config.NewLoaderFromFile("/non/existent/file.yaml", configs.New, configs.DefaultValidator)
	require.Error(t, err)

	_, err = config.NewLoaderFromFile(t.TempDir(), configs.New, configs.DefaultValidator)
	require.Error(t, err)
}

func TestLoader_WithValidator(t *testing.T) {
	t.Parallel()

	data := []byte("apiVersion: kbatch.jacobcolvin.com/v1beta1\nkind: Configuration\nextra: true\n")

	l := config.NewLoaderFromBytes(data, configs.New, configs.DefaultValidator)
	require.Error(t, l.Validate())

	l = config.NewLoaderFromBytes(data, configs.New, configs.DefaultValidator, config.WithValidator(nil))
	require.NoError(t, l.Validate())
}
