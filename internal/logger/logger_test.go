package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsRouteToSeparateWriters(t *testing.T) {
	var info, errs bytes.Buffer
	SetOutput(&info, &errs)
	t.Cleanup(func() { SetOutput(os.Stdout, os.Stderr) })

	Info("search for %q", "phone")
	Warn("redis disabled")
	Error("insert failed: %v", "timeout")

	assert.Contains(t, info.String(), `INFO search for "phone"`)
	assert.Contains(t, info.String(), "WARN redis disabled")
	assert.NotContains(t, info.String(), "ERROR")
	assert.Contains(t, errs.String(), "ERROR insert failed: timeout")
}
