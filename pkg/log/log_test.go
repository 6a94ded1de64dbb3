package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kbatch/pkg/log"
)

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level   string
		format  string
		wantErr error
	}{
		"text info":     {level: "info", format: "text"},
		"json debug":    {level: "DEBUG", format: "json"},
		"logfmt warn":   {level: "warning", format: "logfmt"},
		"unknown level": {level: "loud", format: "text", wantErr: log.ErrUnknownLogLevel},
		"unknown fmt":   {level: "info", format: "xml", wantErr: log.ErrUnknownLogFormat},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h, err := log.CreateHandlerWithStrings(&bytes.Buffer{}, tc.level, tc.format)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.ErrorIs(t, err, log.ErrInvalidArgument)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestCreateHandler_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(log.CreateHandler(&buf, slog.LevelInfo, log.FormatJSON))
	logger.Debug("hidden")
	logger.Info("generated", slog.String("path", "batch_job/job_a_1.yaml"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"path":"batch_job/job_a_1.yaml"`)
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Default(), log.WithContext(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := log.NewContext(context.Background(), logger)
	assert.Same(t, logger, log.WithContext(ctx))
}

func TestWithJob(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(log.CreateHandler(&buf, slog.LevelInfo, log.FormatJSON))
	ctx := log.NewContext(context.Background(), logger)

	jobCtx := log.WithJob(ctx, 3, "{lr: 0.01, batch_size: 32}")
	log.WithContext(jobCtx).Info("generated job")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.InDelta(t, 3, record[log.KeyJob], 0)
	assert.Equal(t, "{lr: 0.01, batch_size: 32}", record[log.KeyVars])

	// The parent context keeps the untagged logger.
	assert.Same(t, logger, log.WithContext(ctx))
}
