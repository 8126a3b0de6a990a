package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestPreInitLoggerUsesConfiguredHandler(t *testing.T) {
	logger := L("monitor")

	var buf bytes.Buffer
	Init("text", "info", &buf)

	logger.Info("snapshot built", "processes", 42)

	out := buf.String()
	if !strings.Contains(out, "msg=\"snapshot built\"") {
		t.Fatalf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, "component=monitor") {
		t.Fatalf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "processes=42") {
		t.Fatalf("expected processes field, got: %s", out)
	}
}

func TestPreInitLoggerRespectsConfiguredLevel(t *testing.T) {
	logger := L("monitor")

	var buf bytes.Buffer
	Init("text", "warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info log should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn log should be emitted: %s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init("json", "info", &buf)

	L("gpu").Info("resolver selected", "mode", "nvidia")

	out := buf.String()
	if !strings.Contains(out, `"component":"gpu"`) {
		t.Fatalf("expected JSON component field, got: %s", out)
	}
	if !strings.Contains(out, `"mode":"nvidia"`) {
		t.Fatalf("expected JSON mode field, got: %s", out)
	}
}

func TestWithCommandAttachesCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	Init("text", "info", &buf)

	logger := WithCommand(L("dispatch"), "cmd-1", "get_processes")
	logger.Info("dispatched")

	out := buf.String()
	if !strings.Contains(out, "commandId=cmd-1") {
		t.Fatalf("expected commandId field, got: %s", out)
	}
	if !strings.Contains(out, "commandType=get_processes") {
		t.Fatalf("expected commandType field, got: %s", out)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	cases := map[string]string{
		"":        "INFO",
		"bogus":   "INFO",
		"warning": "WARN",
		"DEBUG":   "DEBUG",
	}
	for input, want := range cases {
		if got := parseLevel(input).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}
