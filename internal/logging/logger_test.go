package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"microtag/internal/config"
)

func TestConsoleHandlerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, level, false, false))

	NewComponentLogger(logger, "annotate").Info("joined evidence",
		Args(String(FieldDatabase, "npatlas"), Int(FieldRows, 42), String("note", "two words"))...)

	line := buf.String()
	if !strings.Contains(line, " INFO annotate: joined evidence") {
		t.Fatalf("unexpected console line %q", line)
	}
	if !strings.Contains(line, "database=npatlas") || !strings.Contains(line, "rows=42") {
		t.Fatalf("missing fields in %q", line)
	}
	if !strings.Contains(line, `note="two words"`) {
		t.Fatalf("expected quoted value in %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix, got %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("expected no color codes, got %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, level, false, false))

	logger.Info("hidden")
	logger.Warn("shown", Args(Error(errors.New("boom")))...)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "WARN shown error=boom") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConsoleHandlerGroupsFlattenKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar), false, false))
	logger.WithGroup("tier").Info("counted", slog.Int("direct", 3))
	if !strings.Contains(buf.String(), "tier.direct=3") {
		t.Fatalf("expected grouped key, got %q", buf.String())
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))
	logger.Info("done", String(FieldRunID, "abc"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if record["level"] != "info" || record["msg"] != "done" || record["run_id"] != "abc" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Logging.Format = "json"
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	component := NewComponentLogger(logger, "annotate")
	component.Info("hello", String(FieldStage, "tiering"))

	if err := Close(component); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := Close(logger); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected shared file to be closed already, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"stage":"tiering"`) {
		t.Fatalf("log file missing record: %s", data)
	}
}

func TestCloseWithoutLogFile(t *testing.T) {
	logger, err := New(Options{Level: "info", Format: "console", OutputPaths: []string{"stderr"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Close(logger); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := Close(nil); err != nil {
		t.Fatalf("Close(nil): %v", err)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("nop logger should not be enabled")
	}
	if NewComponentLogger(nil, "x").Handler() == nil {
		t.Fatal("expected handler from nil base")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
