package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestFileOutput(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "engine.log")

	l, err := NewDefaultLogger(&Config{
		LogFilePath: logPath,
		MaxFileSize: 1024 * 1024,
		MaxBackups:  2,
		Level:       LevelDebug,
	})
	if err != nil {
		t.Fatalf("NewDefaultLogger: %v", err)
	}

	l.Info("segment recorded", String("context", "results"), Int("count", 3))
	l.Warn("term not found", String("term", "corrosão"))
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "[INFO] segment recorded context=results count=3") {
		t.Errorf("missing info entry, got:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] term not found term=corrosão") {
		t.Errorf("missing warn entry, got:\n%s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "engine.log")

	l, err := NewDefaultLogger(&Config{
		LogFilePath: logPath,
		MaxFileSize: 1024 * 1024,
		MaxBackups:  2,
		Level:       LevelWarn,
	})
	if err != nil {
		t.Fatalf("NewDefaultLogger: %v", err)
	}
	defer l.Close()

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")

	data, _ := os.ReadFile(logPath)
	out := string(data)

	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("low-level entries should be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("warn entry should be present, got:\n%s", out)
	}
}

func TestErrField(t *testing.T) {
	f := Err(nil)
	if f.Key != "error" || f.Value != nil {
		t.Errorf("Err(nil) = %+v", f)
	}
}

func TestGlobalLoggerFallback(t *testing.T) {
	SetGlobalLogger(nil)
	// Must not panic before Init.
	Debug("noop")
	Info("noop")
	Warn("noop")
	Error("noop", nil)
}
