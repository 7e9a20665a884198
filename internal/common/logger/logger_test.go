package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestZapAdapter_FieldsAreForwarded(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{
		"component": "directory",
	})

	log.Info("signed up", map[string]interface{}{
		"activity": "Chess Club",
		"email":    "neustudent@mergington.edu",
	})
	log.WithError(errors.New("boom")).Error("failed", nil)

	entries := logs.All()
	assert.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "directory", first["component"])
	assert.Equal(t, "Chess Club", first["activity"])
	assert.Equal(t, "neustudent@mergington.edu", first["email"])

	second := entries[1].ContextMap()
	assert.Equal(t, "boom", second["error"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestMapToZapFields_Empty(t *testing.T) {
	assert.Nil(t, mapToZapFields(nil))
	assert.Nil(t, mapToZapFields(map[string]interface{}{}))
}

func TestNew_BuildsBothFormats(t *testing.T) {
	assert.NotNil(t, New("debug", "json"))
	assert.NotNil(t, New("info", "console"))
	assert.NotNil(t, NewNoOpLogger())
	assert.NotNil(t, NewTestLogger(t))
}
