package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"", INFO, false},
		{" warn ", WARN, false},
		{"warning", WARN, false},
		{"error", ERROR, false},
		{"fatal", FATAL, false},
		{"verbose", INFO, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q): unexpected error state %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Debug("hidden debug")
	l.Infof("hidden %s", "info")
	l.Warnf("shown %d", 1)
	l.Error("shown 2")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Messages below WARN were written: %q", out)
	}
	if !strings.Contains(out, "[WARN ]") || !strings.Contains(out, "shown 1") {
		t.Errorf("Missing warning: %q", out)
	}
	if !strings.Contains(out, "[ERROR]") || !strings.Contains(out, "shown 2") {
		t.Errorf("Missing error: %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Error("New should not colorize output")
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug")

	l.Info("where am I")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Errorf("Expected caller file in %q", buf.String())
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "error")

	if err := l.SetLevel("debug"); err != nil {
		t.Fatal(err)
	}
	if l.Level() != DEBUG {
		t.Errorf("Expected DEBUG, got %v", l.Level())
	}
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("Debug message missing after SetLevel")
	}

	if err := l.SetLevel("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
	if l.Level() != INFO {
		t.Errorf("Unknown level should fall back to INFO, got %v", l.Level())
	}
}

func TestLogger_Fatal(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info")

	code := -1
	l.exit = func(c int) { code = c }

	l.Fatalf("giving up: %s", "boom")
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "[FATAL] ") || !strings.Contains(buf.String(), "giving up: boom") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "asciiray.log")

	l, err := NewFileLogger("info", path)
	if err != nil {
		t.Fatal(err)
	}
	l.Printf("frame %d done", 7)
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[INFO ]") || !strings.Contains(string(data), "frame 7 done") {
		t.Errorf("Unexpected log file contents %q", data)
	}
}

func TestLogLevel_String(t *testing.T) {
	if WARN.String() != "WARN" || INFO.String() != "INFO" {
		t.Errorf("Unexpected names %q %q", WARN.String(), INFO.String())
	}
}
