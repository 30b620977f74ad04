package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newJSONLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "diallog", buf)
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestJSONOutput_FieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "debug").WithComponent("router")
	l.Info("routed", Fields(FieldRoute, "quick->clova", FieldSegments, 3))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if entry[FieldComponent] != "router" {
		t.Errorf("expected component=router, got %v", entry[FieldComponent])
	}
	if entry[FieldRoute] != "quick->clova" {
		t.Errorf("expected route field, got %v", entry[FieldRoute])
	}
	if entry["message"] != "routed" {
		t.Errorf("expected message 'routed', got %v", entry["message"])
	}
}

func TestErrorValuesAreStrings(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf, "info").Warn("failed", Fields(FieldError, errors.New("boom")))
	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("expected error rendered as string, got %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %s", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected warn message")
	}
}

func TestNopAndOrNop(t *testing.T) {
	Nop().Info("discarded")
	if OrNop(nil) == nil {
		t.Fatal("expected a logger for nil input")
	}
	l := NewDefault("x")
	if OrNop(l) != l {
		t.Error("expected OrNop to return the given logger")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFields_OddArgs(t *testing.T) {
	m := Fields("a", 1, "dangling")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("unexpected fields %v", m)
	}
}
