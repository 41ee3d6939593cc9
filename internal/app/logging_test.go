package app

import (
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var sb strings.Builder
	log := NewLogger(LogWarn, &sb)

	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	out := sb.String()
	if strings.Contains(out, "[DEBUG]") || strings.Contains(out, "[INFO]") {
		t.Errorf("low levels leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] slate: w") || !strings.Contains(out, "[ERROR] slate: e") {
		t.Errorf("missing expected lines: %q", out)
	}
}

func TestLoggerFields(t *testing.T) {
	var sb strings.Builder
	log := NewLogger(LogInfo, &sb).WithComponent("highlight").WithField("tab", 3)

	log.Info("repaired %d lines", 7)

	out := sb.String()
	if !strings.Contains(out, "repaired 7 lines") {
		t.Errorf("formatting lost: %q", out)
	}
	if !strings.Contains(out, "{component=highlight, tab=3}") {
		t.Errorf("fields missing or unsorted: %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogDebug},
		{"DEBUG", LogDebug},
		{"info", LogInfo},
		{"warn", LogWarn},
		{"warning", LogWarn},
		{"error", LogError},
		{"nonsense", LogInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNullLogger(t *testing.T) {
	// Must not panic despite nil output.
	NullLogger.Info("dropped")
	NullLogger.Error("dropped")
}
