package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false
	mu.Unlock()

	reconfigure()

	return buf, func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		reconfigure()
	}
}

func TestLevelFiltering(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("WARN")
	Debug("dropped debug")
	Info("dropped info")
	Warn("kept warn")
	Error("kept error")

	out := buf.String()
	assert.NotContains(t, out, "dropped debug")
	assert.NotContains(t, out, "dropped info")
	assert.Contains(t, out, "kept warn")
	assert.Contains(t, out, "kept error")
}

func TestJSONFormat(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("DEBUG")
	SetFormat("json")
	defer SetFormat("text")

	Info("put accepted", KeyMessageID, "abc-123", KeyProcedure, "PutIData")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "put accepted", line["msg"])
	assert.Equal(t, "abc-123", line[KeyMessageID])
	assert.Equal(t, "PutIData", line[KeyProcedure])
}

func TestContextFieldsInjected(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("DEBUG")
	SetFormat("json")
	defer SetFormat("text")

	lc := NewLogContext("msg-1", "GetIData", "peer-a", "elder")
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "fan-out complete")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "msg-1", line[KeyMessageID])
	assert.Equal(t, "GetIData", line[KeyProcedure])
	assert.Equal(t, "peer-a", line[KeyPeer])
	assert.Equal(t, "elder", line[KeyRole])
}

func TestDurationMs(t *testing.T) {
	lc := NewLogContext("m", "p", "peer", "adult")
	assert.GreaterOrEqual(t, lc.DurationMs(), float64(0))
}
