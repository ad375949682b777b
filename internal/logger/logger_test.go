package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestLoggerJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info("hello", "key", "value")

	entry := logLine(t, &buf)
	if entry["message"] != "hello" {
		t.Errorf("message = %v, want hello", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want lowercase info", entry["level"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("missing timestamp key")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want value", entry["key"])
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info log should be filtered at warn level, got %q", buf.String())
	}

	log.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn log should pass at warn level")
	}
}

func TestLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("bogus", &buf)

	log.Debug("dropped")
	if buf.Len() != 0 {
		t.Error("debug should be filtered at default info level")
	}
	log.Info("kept")
	if buf.Len() == 0 {
		t.Error("info should pass at default info level")
	}
}

func TestLoggerChainedFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.WithModule("retriever").
		WithQueryID("q-123").
		WithError(errors.New("boom")).
		WithFields(map[string]any{"docs": 3}).
		Error("failed")

	entry := logLine(t, &buf)
	if entry["module"] != "retriever" {
		t.Errorf("module = %v", entry["module"])
	}
	if entry["query_id"] != "q-123" {
		t.Errorf("query_id = %v", entry["query_id"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v", entry["error"])
	}
	if entry["docs"] != float64(3) {
		t.Errorf("docs = %v", entry["docs"])
	}
}
