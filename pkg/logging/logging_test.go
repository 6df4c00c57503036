package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	assert.ErrorContains(t, err, "unknown log level 'loud'")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{Format: "xml"}.Validate())
	assert.Error(t, Config{Level: "chatty"}.Validate())
}

func TestNew_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New(Config{Level: "warn"}, &buf)
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("shown", slog.String("operation", "people"))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "operation=people")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("fetched", slog.Int("rows", 3))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetched", entry["msg"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "archivist.log")
	logger, cleanup, err := New(Config{Level: "info", FilePath: path, MaxSizeMB: 1}, nil)
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestSetup_InstallsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	_, err := Setup(Config{Level: "info"}, &buf)
	require.NoError(t, err)
	slog.Info("via default")
	assert.Contains(t, buf.String(), "via default")
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
