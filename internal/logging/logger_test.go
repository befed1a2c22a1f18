package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"cinevault/internal/logging"
)

func TestConsoleOutputIncludesComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "store")
	logger.Info("saved collection", logging.Int("records", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO store: saved collection") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "records=3") {
		t.Fatalf("expected records attr in line: %q", line)
	}
}

func TestJSONOutputUsesCanonicalKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("lookup failed", logging.String("title", "Inception"))

	line := buf.String()
	for _, want := range []string{`"level":"warn"`, `"msg":"lookup failed"`, `"title":"Inception"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in json line: %q", want, line)
		}
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info suppressed at warn level, got %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "WARN") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}
