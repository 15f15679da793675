// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package telemetry

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"autonav-go/pkg/metrics"
)

// fakeSource serves a fixed sequence of snapshots.
type fakeSource struct {
	mu     sync.Mutex
	status Status
}

func (f *fakeSource) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeSource) set(s Status) {
	f.mu.Lock()
	f.status = s
	f.mu.Unlock()
}

func newTestServer(t *testing.T) (*Server, *fakeSource, *httptest.Server) {
	t.Helper()
	src := &fakeSource{}
	src.set(Status{Time: 1.5, Leg: 2, Position: [3]float64{10, 20, 30}})
	s := New(Config{Source: src, Interval: 10 * time.Millisecond})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, src, ts
}

func TestStatusEndpoint(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", resp.StatusCode)
	}

	var got Status
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Time != 1.5 || got.Leg != 2 || got.Position != [3]float64{10, 20, 30} {
		t.Errorf("status = %+v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.Global().Counter("telemetry_test_counter", "test counter").Inc()
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "telemetry_test_counter") {
		t.Error("metrics output missing registered counter")
	}
}

func TestStreamSendsSnapshot(t *testing.T) {
	_, src, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	src.set(Status{Time: 9.0, Leg: 1, Done: true})

	// the connect snapshot arrives immediately
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Status
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Time != 1.5 && got.Time != 9.0 {
		t.Errorf("unexpected first snapshot: %+v", got)
	}
}
