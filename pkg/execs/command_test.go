package execs_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kbatch/pkg/execs"
)

func TestNewCommand(t *testing.T) {
	t.Parallel()

	cmd := execs.NewCommand([]string{"PATH=/usr/bin", "HOME=/home/test"})
	assert.Empty(t, cmd.Env)
	assert.Empty(t, cmd.EnvFrom)
	assert.Equal(t, []string{"HOME=/home/test", "PATH=/usr/bin"}, cmd.GetEnv())
}

func TestCommand_GetEnv(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setup func() execs.Command
		want  []string
		deny  []string
	}{
		"only essential vars from base env": {
			setup: func() execs.Command {
				return execs.NewCommand([]string{"PATH=/usr/bin", "KUBECONFIG=/kube", "SECRET=x"})
			},
			want: []string{"PATH=/usr/bin"},
			deny: []string{"KUBECONFIG=/kube", "SECRET=x"},
		},
		"envFrom by pattern": {
			setup: func() execs.Command {
				cmd := execs.NewCommand([]string{"KUBECONFIG=/kube", "KUBE_CONTEXT=dev", "OTHER=1"})
				cmd.AddEnvFrom([]execs.EnvFromSource{
					{CallerRef: &execs.CallerRef{Pattern: "^KUBE"}},
				})

				return cmd
			},
			want: []string{"KUBECONFIG=/kube", "KUBE_CONTEXT=dev"},
			deny: []string{"OTHER=1"},
		},
		"envFrom by name": {
			setup: func() execs.Command {
				cmd := execs.NewCommand([]string{"KUBECONFIG=/kube", "OTHER=1"})
				cmd.AddEnvFrom([]execs.EnvFromSource{
					{CallerRef: &execs.CallerRef{Name: "KUBECONFIG"}},
					{CallerRef: &execs.CallerRef{Name: "MISSING"}},
				})

				return cmd
			},
			want: []string{"KUBECONFIG=/kube"},
			deny: []string{"OTHER=1", "MISSING="},
		},
		"static env overrides": {
			setup: func() execs.Command {
				cmd := execs.NewCommand([]string{"HOME=/home/test"})
				cmd.AddEnvVar(execs.EnvVar{Name: "HOME", Value: "/override"})
				cmd.AddEnvVar(execs.EnvVar{Name: "", Value: "ignored"})

				return cmd
			},
			want: []string{"HOME=/override"},
			deny: []string{"HOME=/home/test", "=ignored"},
		},
		"env value from inherited variable": {
			setup: func() execs.Command {
				cmd := execs.NewCommand([]string{"KUBECONFIG=/kube"})
				cmd.AddEnvFrom([]execs.EnvFromSource{
					{CallerRef: &execs.CallerRef{Name: "KUBECONFIG"}},
				})
				cmd.AddEnvVar(execs.EnvVar{
					Name:      "CONFIG_COPY",
					ValueFrom: &execs.EnvVarSource{CallerRef: &execs.CallerRef{Name: "KUBECONFIG"}},
				})

				return cmd
			},
			want: []string{"CONFIG_COPY=/kube", "KUBECONFIG=/kube"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd := tc.setup()
			require.NoError(t, cmd.CompilePatterns())

			got := cmd.GetEnv()
			for _, want := range tc.want {
				assert.Contains(t, got, want)
			}

			for _, deny := range tc.deny {
				assert.NotContains(t, got, deny)
			}
		})
	}
}

func TestCommand_CompilePatterns(t *testing.T) {
	t.Parallel()

	cmd := execs.NewCommand(nil)
	cmd.AddEnvFrom([]execs.EnvFromSource{
		{CallerRef: &execs.CallerRef{Pattern: "[invalid"}},
	})

	err := cmd.CompilePatterns()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "envFrom[0]")
}

func TestCommand_Clone(t *testing.T) {
	t.Parallel()

	cmd := execs.NewCommand([]string{"PATH=/usr/bin"})
	cmd.Command = "kubectl"
	cmd.Args = []string{"create", "-f"}

	clone := cmd.Clone()
	clone.Args[0] = "apply"

	assert.Equal(t, "kubectl create -f", cmd.String())
	assert.Equal(t, "kubectl apply -f", clone.String())
	assert.Equal(t, cmd.GetEnv(), clone.GetEnv())
}

func TestExecutor_Exec(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cmd      func() execs.Command
		args     []string
		validate func(t *testing.T, result *execs.Result, err error)
	}{
		"success with extra args": {
			cmd: func() execs.Command {
				cmd := execs.NewCommand([]string{"PATH=/usr/bin:/bin"})
				cmd.Command = "echo"
				cmd.Args = []string{"created"}

				return cmd
			},
			args: []string{"job.yaml"},
			validate: func(t *testing.T, result *execs.Result, err error) {
				t.Helper()
				require.NoError(t, err)
				assert.Equal(t, "created job.yaml\n", result.Stdout)
				assert.Equal(t, 0, result.ExitCode)
			},
		},
		"non-zero exit keeps output": {
			cmd: func() execs.Command {
				cmd := execs.NewCommand([]string{"PATH=/usr/bin:/bin"})
				cmd.Command = "sh"
				cmd.Args = []string{"-c", "echo denied >&2; exit 3", "--"}

				return cmd
			},
			args: []string{"job.yaml"},
			validate: func(t *testing.T, result *execs.Result, err error) {
				t.Helper()
				require.ErrorIs(t, err, execs.ErrCommandExecution)
				require.NotNil(t, result)
				assert.Equal(t, "denied\n", result.Stderr)
				assert.Equal(t, 3, result.ExitCode)
			},
		},
		"missing program": {
			cmd: func() execs.Command {
				cmd := execs.NewCommand(nil)
				cmd.Command = "kbatch-definitely-not-installed"

				return cmd
			},
			validate: func(t *testing.T, result *execs.Result, err error) {
				t.Helper()
				require.ErrorIs(t, err, execs.ErrCommandNotFound)
				assert.Nil(t, result)
			},
		},
		"missing absolute program": {
			cmd: func() execs.Command {
				cmd := execs.NewCommand(nil)
				cmd.Command = filepath.Join("/nonexistent", "kbatch", "nope")

				return cmd
			},
			validate: func(t *testing.T, result *execs.Result, err error) {
				t.Helper()
				require.ErrorIs(t, err, execs.ErrCommandNotFound)
				assert.Nil(t, result)
			},
		},
		"empty command": {
			cmd: func() execs.Command {
				return execs.NewCommand(nil)
			},
			validate: func(t *testing.T, result *execs.Result, err error) {
				t.Helper()
				require.ErrorIs(t, err, execs.ErrEmptyCommand)
				assert.Nil(t, result)
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			result, err := execs.NewExecutor(tc.cmd(), tc.args...).Exec(t.Context(), "")
			tc.validate(t, result, err)
		})
	}
}

func TestExecutor_ExecCancelled(t *testing.T) {
	t.Parallel()

	cmd := execs.NewCommand([]string{"PATH=/usr/bin:/bin"})
	cmd.Command = "sleep"
	cmd.Args = []string{"10"}

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	_, err := execs.NewExecutor(cmd).Exec(ctx, "")
	require.ErrorIs(t, err, execs.ErrCommandExecution)
}

func TestExecutor_String(t *testing.T) {
	t.Parallel()

	cmd := execs.NewCommand(nil)
	cmd.Command = "kubectl"
	cmd.Args = []string{"create", "-f"}

	e := execs.NewExecutor(cmd, "batch_job/job_a_1.yaml")
	assert.Equal(t, "kubectl create -f batch_job/job_a_1.yaml", e.String())
	assert.Equal(t, []string{"create", "-f", "batch_job/job_a_1.yaml"}, e.Args())

	cmd.Args = nil
	assert.Equal(t, "kubectl", cmd.String())
}
