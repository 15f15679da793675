// Unit tests for the metrics registry
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"strings"
	"testing"
)

func TestCounter(t *testing.T) {
	r := NewRegistry()
	c := r.Counter("legs_built_total", "Number of trajectory legs built")

	if c.Get() != 0 {
		t.Fatalf("new counter should be 0, got %d", c.Get())
	}
	c.Inc()
	c.Add(4)
	if c.Get() != 5 {
		t.Errorf("expected 5, got %d", c.Get())
	}

	// Second lookup returns the same counter
	if r.Counter("legs_built_total", "") != c {
		t.Error("registry should return the registered counter")
	}
}

func TestGauge(t *testing.T) {
	r := NewRegistry()
	g := r.Gauge("playhead_seconds", "Current playhead time")

	g.Set(12.5)
	if g.Get() != 12.5 {
		t.Errorf("expected 12.5, got %g", g.Get())
	}
	g.Set(-1)
	if g.Get() != -1 {
		t.Errorf("expected -1, got %g", g.Get())
	}
}

func TestWritePrometheus(t *testing.T) {
	r := NewRegistry()
	r.Counter("replans_total", "Replan operations").Add(3)
	r.Gauge("vel_max", "Track velocity limit").Set(10)

	var sb strings.Builder
	if err := r.WritePrometheus(&sb); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"# TYPE replans_total counter",
		"replans_total 3",
		"# TYPE vel_max gauge",
		"vel_max 10",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Registration order is preserved
	if strings.Index(out, "replans_total") > strings.Index(out, "vel_max") {
		t.Error("metrics should be emitted in registration order")
	}
}

func TestGlobalRegistry(t *testing.T) {
	if Global() != Global() {
		t.Error("Global should return a stable registry")
	}
}
