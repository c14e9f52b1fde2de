package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew_NeverNil(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		for _, level := range []string{"debug", "info", "warn", "error", "garbage", ""} {
			log := New(level, format)
			assert.NotNil(t, log, "format=%q level=%q", format, level)
		}
	}
}

func TestNew_HonorsLevel(t *testing.T) {
	log := New("warn", "json")
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}
