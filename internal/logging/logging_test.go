package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		verbose bool
		env     string
		want    zapcore.Level
	}{
		{false, "", zapcore.InfoLevel},
		{true, "", zapcore.DebugLevel},
		{true, "error", zapcore.DebugLevel},
		{false, "debug", zapcore.DebugLevel},
		{false, " WARN ", zapcore.WarnLevel},
	}
	for _, tt := range tests {
		got, err := Level(tt.verbose, tt.env)
		if err != nil {
			t.Fatalf("Level(%v, %q) failed: %v", tt.verbose, tt.env, err)
		}
		if got != tt.want {
			t.Errorf("Level(%v, %q): got %v, want %v", tt.verbose, tt.env, got, tt.want)
		}
	}
}

func TestLevel_Invalid(t *testing.T) {
	if _, err := Level(false, "chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew(t *testing.T) {
	t.Setenv(LevelEnv, "warn")
	logger, err := New(false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
}
