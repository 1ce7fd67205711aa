package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"WARN", zap.WarnLevel},
		{"error", zap.ErrorLevel},
		{" Fatal ", zap.FatalLevel},
		{"", zap.InfoLevel},
		{"verbose", zap.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		l, err := NewLogger(Options{Environment: env, Level: "debug", Service: "coachdash", Version: "test"})
		if err != nil {
			t.Fatalf("NewLogger(%s): %v", env, err)
		}
		if !l.Core().Enabled(zap.DebugLevel) {
			t.Errorf("expected debug enabled for %s", env)
		}
	}
}
