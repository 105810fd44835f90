package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[LogLevel]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestSetLevel(t *testing.T) {
	prev := Level()
	t.Cleanup(func() { atomicLevel.SetLevel(prev) })

	SetLevel(ErrorLevel)
	assert.Equal(t, zapcore.ErrorLevel, Level())

	SetLevel(DebugLevel)
	assert.Equal(t, zapcore.DebugLevel, Level())
}

func TestLoggingBeforeInitIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("not initialised", String("k", "v"))
		Error("not initialised", ErrorField(assert.AnError))
		L().Warn("nop")
	})
}
