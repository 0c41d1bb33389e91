package logging

import (
	"bytes"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	SetVerbose(false)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(bytes.NewBuffer(nil))
	})
	return buf
}

func TestDebugEnabled(t *testing.T) {
	captureOutput(t)

	t.Setenv("KB_DEBUG", "")
	assert.False(t, DebugEnabled(), "empty KB_DEBUG should leave debug off")

	t.Setenv("KB_DEBUG", "1")
	assert.True(t, DebugEnabled())
}

func TestDebugf(t *testing.T) {
	buf := captureOutput(t)

	t.Setenv("KB_DEBUG", "")
	Debugf("hidden %s", "message")
	assert.Empty(t, buf.String())

	t.Setenv("KB_DEBUG", "1")
	Debugf("visible %s", "message")
	assert.Contains(t, buf.String(), "visible message")
}

func TestDebugln(t *testing.T) {
	buf := captureOutput(t)
	t.Setenv("KB_DEBUG", "")

	Debugln("hidden")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debugln("shown via verbose")
	assert.Contains(t, buf.String(), "shown via verbose")
}

func TestWithFields(t *testing.T) {
	buf := captureOutput(t)
	t.Setenv("KB_DEBUG", "1")

	WithFields(log.Fields{"method": "GET", "path": "/allTodos", "status": 200}).Debug("request")

	out := buf.String()
	assert.Contains(t, out, "path=/allTodos")
	assert.Contains(t, out, "status=200")
}

func TestWarnfAlwaysPrints(t *testing.T) {
	buf := captureOutput(t)
	t.Setenv("KB_DEBUG", "")

	Warnf("could not read %s", "config.yaml")
	assert.Contains(t, buf.String(), "could not read config.yaml")
}
