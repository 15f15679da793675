// Metrics collection for the autonav host software
//
// Provides a small Prometheus-compatible registry:
// - Counter: monotonically increasing values
// - Gauge: values that can go up and down
//
// Outputs in Prometheus text format for easy scraping.
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Counter is a monotonically increasing metric
type Counter struct {
	name  string
	help  string
	value atomic.Uint64
}

// Name returns the metric name
func (c *Counter) Name() string { return c.name }

// Help returns the metric help text
func (c *Counter) Help() string { return c.help }

// Inc increments the counter by one
func (c *Counter) Inc() {
	c.value.Add(1)
}

// Add increments the counter by delta
func (c *Counter) Add(delta uint64) {
	c.value.Add(delta)
}

// Get returns the current counter value
func (c *Counter) Get() uint64 {
	return c.value.Load()
}

// Write emits the counter in Prometheus text format
func (c *Counter) Write(sb *strings.Builder) {
	fmt.Fprintf(sb, "# HELP %s %s\n", c.name, c.help)
	fmt.Fprintf(sb, "# TYPE %s counter\n", c.name)
	fmt.Fprintf(sb, "%s %d\n", c.name, c.Get())
}

// Gauge is a metric that can go up and down
type Gauge struct {
	name string
	help string
	bits atomic.Uint64
}

// Name returns the metric name
func (g *Gauge) Name() string { return g.name }

// Help returns the metric help text
func (g *Gauge) Help() string { return g.help }

// Set sets the gauge to the given value
func (g *Gauge) Set(value float64) {
	g.bits.Store(math.Float64bits(value))
}

// Get returns the current gauge value
func (g *Gauge) Get() float64 {
	return math.Float64frombits(g.bits.Load())
}

// Write emits the gauge in Prometheus text format
func (g *Gauge) Write(sb *strings.Builder) {
	fmt.Fprintf(sb, "# HELP %s %s\n", g.name, g.help)
	fmt.Fprintf(sb, "# TYPE %s gauge\n", g.name)
	fmt.Fprintf(sb, "%s %s\n", g.name, strconv.FormatFloat(g.Get(), 'g', -1, 64))
}

// metric is the common interface over counters and gauges
type metric interface {
	Name() string
	Write(sb *strings.Builder)
}

// Registry holds a named set of metrics
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]metric
	order   []string
}

// NewRegistry creates an empty metrics registry
func NewRegistry() *Registry {
	return &Registry{
		metrics: make(map[string]metric),
	}
}

// Counter returns the counter with the given name, registering it on first use
func (r *Registry) Counter(name, help string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.metrics[name]; ok {
		if c, ok := m.(*Counter); ok {
			return c
		}
		// Name collision across metric types is a programming error;
		// return a detached counter rather than corrupting the registry.
		return &Counter{name: name, help: help}
	}
	c := &Counter{name: name, help: help}
	r.metrics[name] = c
	r.order = append(r.order, name)
	return c
}

// Gauge returns the gauge with the given name, registering it on first use
func (r *Registry) Gauge(name, help string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.metrics[name]; ok {
		if g, ok := m.(*Gauge); ok {
			return g
		}
		return &Gauge{name: name, help: help}
	}
	g := &Gauge{name: name, help: help}
	r.metrics[name] = g
	r.order = append(r.order, name)
	return g
}

// WritePrometheus writes all metrics in Prometheus text exposition format
func (r *Registry) WritePrometheus(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sb strings.Builder
	for _, name := range r.order {
		r.metrics[name].Write(&sb)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide metrics registry
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}
