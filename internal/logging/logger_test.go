package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"carillon/internal/logging"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "carillon.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	component := logging.WithComponent(logger, "workflow")
	component.Info("download complete", logging.String("file", "2025-12-07.mp4"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "INFO workflow: download complete") {
		t.Fatalf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "file=2025-12-07.mp4") {
		t.Fatalf("attribute missing from log line: %q", line)
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carillon.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hidden")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected no output, got %q", string(data))
	}
}
