package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.WithField("attempt_id", "a1").Debug("answer stored")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "answer stored" || entry["attempt_id"] != "a1" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewRejectsBadSettings(t *testing.T) {
	if _, err := New("loud", "text"); err == nil {
		t.Fatalf("expected bad level to fail")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Fatalf("expected bad format to fail")
	}
}
