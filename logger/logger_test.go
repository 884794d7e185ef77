package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{Level: "info"}, false},
		{"json stdout", Config{Level: "debug", Format: "json", Output: "stdout"}, false},
		{"file", Config{Level: "warn", Output: filepath.Join(t.TempDir(), "pfd.log")}, false},
		{"bad level", Config{Level: "loud"}, true},
		{"bad file", Config{Level: "info", Output: filepath.Join(t.TempDir(), "missing", "pfd.log")}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, closer, err := New(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, closer.Close())
		})
	}
}

func TestWithRun(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.InfoLevel, "json", "")
	ctx := WithRun(context.Background(), l, "run-1")

	zerolog.Ctx(ctx).Debug().Msg("hidden")
	zerolog.Ctx(ctx).Info().Str("digest", "cashflow").Msg("digest built")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, "cashflow", line["digest"])
	assert.Equal(t, "digest built", line["message"])
}
