package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	_ "github.com/bedolaga/bedolaga-console/internal/testing/guard"
)

func TestLogHandlerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler("json", &buf))
	logger.Info("listening", slog.String("addr", ":8080"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "listening" {
		t.Fatalf("msg = %v, want listening", record["msg"])
	}
	if _, ok := record["source"]; !ok {
		t.Fatal("expected source location in output")
	}
}

func TestLogHandlerPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler("pretty", &buf))
	logger.Info("listening")

	line := buf.String()
	if !regexp.MustCompile(`time=\d{2}:\d{2}:\d{2}\.\d{3}`).MatchString(line) {
		t.Fatalf("expected time-of-day timestamp, got %q", line)
	}
	if !strings.Contains(line, "msg=listening") {
		t.Fatalf("expected text output, got %q", line)
	}
}
