package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(l *Logger)
		want    bool // should log
	}{
		{
			name:    "info message",
			logFunc: func(l *Logger) { l.Info("test message", Fields{"key": "value"}) },
			want:    true,
		},
		{
			name:    "debug below threshold",
			logFunc: func(l *Logger) { l.Debug("debug message", nil) },
			want:    false,
		},
		{
			name:    "error with err",
			logFunc: func(l *Logger) { l.Error("error occurred", nil, errors.New("test error")) },
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(LevelInfo, &buf, false)

			tt.logFunc(l)

			assert.Equal(t, tt.want, buf.Len() > 0)
		})
	}
}

func TestLogger_JSONEntry(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf, false)

	l.Error("fetch failed", Fields{"url": "https://example.com"}, errors.New("boom"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "fetch failed", entry["message"])
	assert.Equal(t, "https://example.com", entry["url"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry, "timestamp")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf, false).With(Fields{"run_id": "abc"})

	l.Debug("hello", nil)

	assert.True(t, strings.Contains(buf.String(), `"run_id":"abc"`))
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(tt.minLevel, &buf, false)

			switch tt.logLevel {
			case LevelDebug:
				l.Debug("test", nil)
			case LevelInfo:
				l.Info("test", nil)
			case LevelWarn:
				l.Warn("test", nil)
			case LevelError:
				l.Error("test", nil, nil)
			}

			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	prev := Default()
	SetDefault(New(LevelDebug, &buf, true))
	defer SetDefault(prev)

	Debug("test debug", nil)
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	out := buf.String()
	assert.Contains(t, out, "test debug")
	assert.Contains(t, out, "test error")
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored", nil)
	l.With(Fields{"k": "v"}).Error("ignored", nil, errors.New("x"))
	assert.NoError(t, l.Sync())
}
