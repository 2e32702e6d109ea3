package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpersNoopBeforeInit(t *testing.T) {
	Logger = nil
	// Must not panic.
	Info("x")
	Debug("x")
	Warn("x")
	Error("x")
}

func TestInitWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWriter(&buf, "warn"); err != nil {
		t.Fatalf("InitWriter: %v", err)
	}
	defer func() { Logger = nil }()

	Info("hidden message")
	Warn("visible message", "id", "abc")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "id=abc") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestInitWriterBadLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWriter(&buf, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitCreatesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	if err := Init(Options{Dir: dir, Level: "debug", MaxSizeMB: 1, MaxBackups: 1}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("hello file")
	Close()
	if Logger != nil {
		t.Error("Close should drop the file logger")
	}
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "dailybugle.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Errorf("log file missing entry: %q", data)
	}
}
