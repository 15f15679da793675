// Unit tests for the structured logger
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := New("test")
	l.SetWriter(buf)
	l.SetColorize(false)
	return l
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetLevel(WARN)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("DEBUG message should be filtered at WARN level")
	}
	if strings.Contains(out, "info message") {
		t.Error("INFO message should be filtered at WARN level")
	}
	if !strings.Contains(out, "warn message") {
		t.Error("WARN message missing from output")
	}
	if !strings.Contains(out, "error message") {
		t.Error("ERROR message missing from output")
	}
}

func TestTextFormatFields(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.WithFields(Fields{"leg": 2, "vel_max": 10.0}).Info("path rebuilt")

	out := buf.String()
	if !strings.Contains(out, "path rebuilt") {
		t.Fatalf("message missing from output: %q", out)
	}
	if !strings.Contains(out, "leg=2") || !strings.Contains(out, "vel_max=10") {
		t.Errorf("fields missing from output: %q", out)
	}
}

func TestEntryWithFieldsMerges(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.WithError(errors.New("bad state")).WithFields(Fields{"jerk_time": 0.5, "distance": -1.0}).Error("solver rejected arguments")

	out := buf.String()
	if !strings.Contains(out, "error=bad state") {
		t.Errorf("error field missing from output: %q", out)
	}
	if !strings.Contains(out, "jerk_time=0.5") || !strings.Contains(out, "distance=-1") {
		t.Errorf("merged fields missing from output: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetFormat(FormatJSON)

	l.WithField("segment", 15).Warn("cruise shortened")

	var entry JSONLogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Level != "WARN" {
		t.Errorf("expected level WARN, got %s", entry.Level)
	}
	if entry.Message != "cruise shortened" {
		t.Errorf("unexpected message: %s", entry.Message)
	}
	if entry.Fields["segment"] != float64(15) {
		t.Errorf("expected segment field 15, got %v", entry.Fields["segment"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"Warning": WARN,
		"ERROR":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	sub := l.WithPrefix("scurve")
	sub.Info("solver done")

	if !strings.Contains(buf.String(), "scurve: solver done") {
		t.Errorf("prefixed output missing: %q", buf.String())
	}
}
