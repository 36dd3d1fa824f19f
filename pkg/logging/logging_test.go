package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if ValidLevel("bogus") || !ValidLevel("Debug") {
		t.Error("ValidLevel disagrees with ParseLevel")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "input", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "input=3") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestComponentSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "debug", Output: &buf})

	logger.Component("wallet").Debug("building")

	out := buf.String()
	if !strings.Contains(out, "wallet") || !strings.Contains(out, "building") {
		t.Errorf("component output missing: %q", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Output: &buf, JSON: true})

	logger.Info("signed", "txid", "abcd")

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "signed" || entry["txid"] != "abcd" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNop(t *testing.T) {
	// must not panic or write anywhere
	Nop().Error("dropped")
}
