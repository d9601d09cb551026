package logger

import (
	"testing"

	"github.com/function61/gokit/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New("debug", false)
	assert.Assert(t, err == nil)
	assert.Assert(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New("warn", true)
	assert.Assert(t, err == nil)
	assert.Assert(t, !log.Core().Enabled(zapcore.InfoLevel))
	assert.Assert(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Assert(t, parseLevel("") == zapcore.InfoLevel)
	assert.Assert(t, parseLevel("verbose") == zapcore.InfoLevel)
	assert.Assert(t, parseLevel(" ERROR ") == zapcore.ErrorLevel)
}
