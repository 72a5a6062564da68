package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKuytov/SVP/pkg/config"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func newBuffered() (*Logger, *bytes.Buffer) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	var buf bytes.Buffer
	return &Logger{zlog: zerolog.New(&buf)}, &buf
}

func TestNew_SetsGlobalLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewWithWriter(&config.Config{Env: "production", LogLevel: tt.level, LogFormat: "json"}, &buf)
			require.NotNil(t, l)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{"Error", zerolog.ErrorLevel},
		{"fatal", zerolog.InfoLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestNewWithWriter_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&config.Config{Env: "staging", LogLevel: "info", LogFormat: "json"}, &buf)
	l.Info("started")

	entry := decode(t, &buf)
	assert.Equal(t, "svp", entry["service"])
	assert.Equal(t, "staging", entry["env"])
	assert.Equal(t, "started", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&config.Config{Env: "development", LogLevel: "info", LogFormat: "console"}, &buf)
	l.Info("console message")
	assert.Contains(t, buf.String(), "console message")
}

func TestLoggerMethods(t *testing.T) {
	l, buf := newBuffered()

	tests := []struct {
		name      string
		log       func()
		wantMsg   string
		wantLevel string
	}{
		{"debug", func() { l.Debug("debug message") }, "debug message", "debug"},
		{"info", func() { l.Info("info message") }, "info message", "info"},
		{"warn", func() { l.Warn("warn message") }, "warn message", "warn"},
		{"error", func() { l.Error("error message") }, "error message", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log()
			entry := decode(t, buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["message"])
		})
	}
}

func TestEnrichment(t *testing.T) {
	l, buf := newBuffered()

	t.Run("field", func(t *testing.T) {
		buf.Reset()
		l.WithField("supplier_id", 12).Info("updated")
		entry := decode(t, buf)
		assert.Equal(t, float64(12), entry["supplier_id"])
	})

	t.Run("fields", func(t *testing.T) {
		buf.Reset()
		l.WithFields(map[string]interface{}{"type": "risk", "format": "pdf"}).Info("report generated")
		entry := decode(t, buf)
		assert.Equal(t, "risk", entry["type"])
		assert.Equal(t, "pdf", entry["format"])
	})

	t.Run("error", func(t *testing.T) {
		buf.Reset()
		l.WithError(errors.New("database connection failed")).Error("operation failed")
		entry := decode(t, buf)
		assert.Equal(t, "database connection failed", entry["error"])
	})

	t.Run("component", func(t *testing.T) {
		buf.Reset()
		l.Component("scheduler").Info("tick")
		entry := decode(t, buf)
		assert.Equal(t, "scheduler", entry["component"])
	})

	t.Run("zerolog shares fields", func(t *testing.T) {
		buf.Reset()
		z := l.Component("report").Zerolog()
		z.Info().Msg("via zerolog")
		entry := decode(t, buf)
		assert.Equal(t, "report", entry["component"])
	})
}

func TestContext(t *testing.T) {
	l, buf := newBuffered()
	fallback := Nop()

	t.Run("stored logger wins", func(t *testing.T) {
		buf.Reset()
		ctx := NewContext(context.Background(), l.WithField("request_id", "req-1"))
		FromContext(ctx, fallback).Info("scoped")
		entry := decode(t, buf)
		assert.Equal(t, "req-1", entry["request_id"])
	})

	t.Run("fallback without logger", func(t *testing.T) {
		assert.Same(t, fallback, FromContext(context.Background(), fallback))
	})
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().WithField("a", 1).Info("discarded") })
}
