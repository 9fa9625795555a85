package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) []string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestInfoWritesFlatJSON(t *testing.T) {
	Init(Options{Level: "info"})
	lines := captureStdout(t, func() {
		Info("checkin.recorded", map[string]any{"user_id": "u1", "adjusted": true, "err": errors.New("boom")})
	})
	require.Len(t, lines, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &payload))
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "checkin.recorded", payload["msg"])
	assert.Equal(t, "u1", payload["user_id"])
	assert.Equal(t, true, payload["adjusted"])
	assert.Equal(t, "boom", payload["err"])
	assert.NotEmpty(t, payload["ts"])
}

func TestLevelFiltersDebug(t *testing.T) {
	Init(Options{Level: "warn"})
	defer Init(Options{})
	lines := captureStdout(t, func() {
		Debug("hidden", nil)
		Info("hidden", nil)
		Warn("shown", nil)
	})
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"shown"`)
}

func TestInitWithFileTeesOutput(t *testing.T) {
	path := t.TempDir() + "/app.log"
	Init(Options{Level: "bogus", File: path})
	defer Init(Options{})

	captureStdout(t, func() {
		Error("protocol.consolidate_failed", map[string]any{"user_id": "u2"})
	})
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "protocol.consolidate_failed")
}
