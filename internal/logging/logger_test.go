package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogDebug},
		{"INFO", LogInfo},
		{" warn ", LogWarn},
		{"warning", LogWarn},
		{"error", LogError},
		{"off", LogOff},
		{"nonsense", LogInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogWarn)

	logger.Debug("debug %d", 1)
	logger.Info("info %d", 2)
	assert.Empty(t, buf.String())

	logger.Warn("warn %d", 3)
	logger.Error("error %d", 4)
	out := buf.String()
	assert.Contains(t, out, "warn 3")
	assert.Contains(t, out, "error 4")

	buf.Reset()
	logger.SetLevel(LogDebug)
	assert.True(t, logger.IsDebugMode())
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	buf.Reset()
	logger.SetLevel(LogOff)
	logger.Error("silenced")
	assert.Empty(t, buf.String())
}

func TestWithFieldsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf, Level: LogInfo, Format: "json"})

	logger.WithField("part", "word/document.xml").WithFields(Fields{"count": 2}).Info("decoded")

	line := strings.TrimSpace(buf.String())
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "decoded", entry["message"])
	assert.Equal(t, "word/document.xml", entry["part"])
	assert.EqualValues(t, 2, entry["count"])
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	parent := NewLogger(nil, LogInfo).WithField("a", 1)
	child := parent.WithField("b", 2)

	assert.Equal(t, Fields{"a": 1}, parent.Fields())
	assert.Equal(t, Fields{"a": 1, "b": 2}, child.Fields())
}

func TestGlobalLogger(t *testing.T) {
	original := GetLogger()
	t.Cleanup(func() { SetLogger(original) })

	var buf bytes.Buffer
	SetLogger(NewLogger(&buf, LogDebug))
	Debug("global %s", "debug")
	Info("global info")
	WithField("k", "v").Warn("global warn")
	assert.Contains(t, buf.String(), "global debug")
	assert.Contains(t, buf.String(), "global info")
	assert.Contains(t, buf.String(), "global warn")

	SetLogger(nil)
	assert.NotPanics(t, func() { Error("dropped") })
}
