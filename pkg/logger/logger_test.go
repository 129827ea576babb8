package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

// TestNewWritesRoleAndObject verifies the JSON shape of an entry.
func TestNewWritesRoleAndObject(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "launcher", false)

	l.Info("config ready", map[string]any{"github_username": "octocat"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "launcher", entries[0]["role"])
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "config ready", entries[0]["message"])
	assert.Equal(t, map[string]any{"github_username": "octocat"}, entries[0]["obj"])
	_, hasTime := entries[0]["time"]
	assert.True(t, hasTime)
}

// TestNewDropsDebugUnlessVerbose checks the level gate.
func TestNewDropsDebugUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "quiet", false).Debug("hidden", nil)
	assert.Empty(t, buf.String())

	New(&buf, "loud", true).Debug("shown", nil)
	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "debug", entries[0]["level"])
}

func TestUnmarshalableObjectFallsBackToString(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "r", false).Warn("odd", map[string]any{"fn": func() {}})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.IsType(t, "", entries[0]["obj"])
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "web", false).With("trace_id", "abc").Error("boom", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["trace_id"])
}

func TestFromContext(t *testing.T) {
	assert.IsType(t, NopLogger{}, FromContext(context.Background()))

	var buf bytes.Buffer
	ctx := New(&buf, "web", false).WithContext(context.Background())
	FromContext(ctx).Info("from ctx", nil)
	assert.Contains(t, buf.String(), "from ctx")
}

func TestHelpersAreNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		Debug(true, nil, "x", nil)
		Debugf(true, nil, "x %d", 1)
		Info(nil, "x", nil)
		Warn(nil, "x", nil)
		Error(nil, "x", nil)
	})
}

func TestDebugRespectsEnabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "r", true)
	Debug(false, l, "skipped", nil)
	assert.Empty(t, buf.String())
	Debugf(true, l, "turn %d", 2)
	assert.Contains(t, buf.String(), "turn 2")
}
