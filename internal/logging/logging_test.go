package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "todolist")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("quiet")
	logger.Warn("loud", "id", "abc")

	output := buf.String()
	if strings.Contains(output, "quiet") {
		t.Fatalf("info record should be filtered, got %q", output)
	}
	if !strings.Contains(output, "loud") || !strings.Contains(output, "id=abc") {
		t.Fatalf("expected warn record with attrs, got %q", output)
	}
	if !strings.Contains(output, "todolist") {
		t.Fatalf("expected prefix, got %q", output)
	}
}

func TestNewDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "", "")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "chatty", ""); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing happens")
}
