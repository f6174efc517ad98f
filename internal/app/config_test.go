package app

import (
	"testing"
	"time"

	"github.com/specialistvlad/tickgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(Config{GridPath: "grid"})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultFrameInterval, cfg.FrameInterval)
}

func TestNewConfig_Rejects(t *testing.T) {
	cases := map[string]Config{
		"GridPath is a required":     {},
		"invalid log format":         {GridPath: "g", LogFormat: "xml"},
		"invalid log level":          {GridPath: "g", LogLevel: "loud"},
		"invalid healthcheck port":   {GridPath: "g", HealthcheckPort: 70000},
		"worker count":               {GridPath: "g", WorkerCount: -1},
		"frames must not":            {GridPath: "g", Frames: -1},
		"frame interval must not be": {GridPath: "g", FrameInterval: -time.Second},
	}
	for want, cfg := range cases {
		t.Run(want, func(t *testing.T) {
			_, err := NewConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), want)
		})
	}
}

func TestNewLogger_Levels(t *testing.T) {
	var buf testutil.SafeBuffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
