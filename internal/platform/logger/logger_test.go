package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		level       string
		debugLogged bool
		infoLogged  bool
		warned      bool
	}{
		{level: "debug", debugLogged: true, infoLogged: true},
		{level: "INFO", infoLogged: true},
		{level: "warn"},
		{level: "error"},
		{level: "verbose", infoLogged: true, warned: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &TestLogBuffer{}
			l, err := Setup(LoggerConfig{Level: tt.level, Output: buf})
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.Same(t, l, slog.Default())

			if tt.warned {
				AssertLogContains(t, buf, "invalid log level configured")
			}

			l.Debug("debug message")
			l.Info("info message")

			assert.Equal(t, tt.debugLogged, contains(buf, "debug message"))
			assert.Equal(t, tt.infoLogged, contains(buf, "info message"))

			entries, err := buf.GetLogEntries()
			require.NoError(t, err)
			for _, entry := range entries {
				assert.Contains(t, entry, "level")
				assert.Contains(t, entry, "msg")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, ok := ParseLevel(" Warn ")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, level)

	level, ok = ParseLevel("")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	scoped, buf := NewTestLogger(t)
	fallback, _ := NewTestLogger(t)

	ctx := WithLogger(context.Background(), scoped.With("trace_id", "abc"))
	FromContext(ctx).Info("hello")
	AssertLogContains(t, buf, `"trace_id":"abc"`)

	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
}

func contains(buf *TestLogBuffer, s string) bool {
	entries, _ := buf.GetLogEntries()
	for _, entry := range entries {
		if entry["msg"] == s {
			return true
		}
	}
	return false
}
