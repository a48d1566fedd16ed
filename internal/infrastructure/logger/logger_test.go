package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshavsspppp/municipality/internal/infrastructure/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("creates logger with JSON format", func(t *testing.T) {
		cfg := &config.LogConfig{
			Level:  "info",
			Format: "json",
		}

		logger, err := NewLogger(cfg, "comments")

		assert.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("creates logger with console format", func(t *testing.T) {
		cfg := &config.LogConfig{
			Level:  "debug",
			Format: "console",
		}

		logger, err := NewLogger(cfg, "detection")

		assert.NoError(t, err)
		assert.NotNil(t, logger)
	})
}

func TestNewLogger_Output(t *testing.T) {
	t.Run("json entries carry service field", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&config.LogConfig{Level: "info", Format: "json"}, "comments", &buf)

		log.Info("grouped comments")
		require.NoError(t, log.Sync())

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "grouped comments", entry["message"])
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "comments", entry["service"])
		assert.NotEmpty(t, entry["timestamp"])
	})

	t.Run("defaults to info level for invalid level", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&config.LogConfig{Level: "invalid", Format: "json"}, "", &buf)

		log.Debug("hidden")
		log.Info("shown")
		require.NoError(t, log.Sync())

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.NotContains(t, buf.String(), `"service"`)
	})

	t.Run("error level drops warnings", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&config.LogConfig{Level: "error", Format: "console"}, "detection", &buf)

		log.Warn("model slow")
		require.NoError(t, log.Sync())

		assert.Empty(t, buf.String())
	})
}
