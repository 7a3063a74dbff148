package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	Init()
	assert.NotNil(t, log)
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	Info("class listed", "count", 3)

	output := buf.String()
	assert.Contains(t, output, "class listed")
	assert.Contains(t, output, `"count":3`)
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	Error("ledger append failed")

	output := buf.String()
	assert.Contains(t, output, "ledger append failed")
	assert.Contains(t, output, `"level":"ERROR"`)
}

func TestDebugIsFilteredByLevel(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	Debug("hidden")
	assert.Empty(t, buf.String())

	log = New(NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Debug("visible", "n", 1)
	assert.Contains(t, buf.String(), "visible")
}

func TestInfof(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	Infof("server starting on port %s", "8080")

	assert.Contains(t, buf.String(), "server starting on port 8080")
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	Errorf("reconcile %s", "failed")

	assert.Contains(t, buf.String(), "reconcile failed")
}
