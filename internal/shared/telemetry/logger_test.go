package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Configure(nil, "info")

	Info("gap.analysis", map[string]any{"kind": "degraded", "cause": errors.New("boom")})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["level"] != "info" || payload["msg"] != "gap.analysis" {
		t.Fatalf("unexpected header fields: %v", payload)
	}
	if payload["kind"] != "degraded" {
		t.Fatalf("unexpected kind: %v", payload["kind"])
	}
	if payload["cause"] != "boom" {
		t.Fatalf("expected error rendered as string, got %v", payload["cause"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts")
	}
}

func TestConfigureFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "error")
	defer Configure(nil, "info")

	Info("dropped", nil)
	Error("kept", nil)

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("expected error line, got %q", out)
	}
}
