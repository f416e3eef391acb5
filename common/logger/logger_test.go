package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 4)

	l.Info("hidden")
	l.Warn("refresh failed", "status", 401)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "refresh failed")
	assert.Contains(t, out, "status=401")
}
