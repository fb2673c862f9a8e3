package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterLevels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{level: "debug", debugSeen: true, infoSeen: true},
		{level: "INFO", debugSeen: false, infoSeen: true},
		{level: "warn", debugSeen: false, infoSeen: false},
		{level: "nonsense", debugSeen: false, infoSeen: true},
		{level: "", debugSeen: false, infoSeen: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, tt.level)

			logger.Debug().Msg("debug line")
			assert.Equal(t, tt.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug line")))

			logger.Info().Msg("info line")
			assert.Equal(t, tt.infoSeen, bytes.Contains(buf.Bytes(), []byte("info line")))
		})
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewWithWriter(&buf, "info"), "report_service")
	logger.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "report_service", entry["component"])
	assert.Equal(t, "hello", entry["message"])
	assert.Contains(t, entry, "time")
}
