// Package telemetry exposes mission state over HTTP: a JSON status
// endpoint, Prometheus metrics and a WebSocket stream for live plotting
// frontends.
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"autonav-go/pkg/errors"
	"autonav-go/pkg/log"
	"autonav-go/pkg/metrics"
)

var logger = log.GetLogger("telemetry")

// Status is one snapshot of the mission as seen by the control loop.
type Status struct {
	Time         float64    `json:"time"`
	Leg          int        `json:"leg"`
	Done         bool       `json:"done"`
	Position     [3]float64 `json:"position"`
	Velocity     [3]float64 `json:"velocity"`
	Acceleration [3]float64 `json:"acceleration"`
}

// Source provides status snapshots. Implementations must be safe to call
// concurrently with the control loop.
type Source interface {
	Status() Status
}

// Config holds server configuration.
type Config struct {
	// HTTP address to listen on (e.g. ":8077")
	Addr string

	// Source for status snapshots
	Source Source

	// Interval between stream pushes; defaults to 100ms
	Interval time.Duration
}

// Server serves mission telemetry.
type Server struct {
	source   Source
	addr     string
	interval time.Duration

	httpServer *http.Server
	wsUpgrader websocket.Upgrader

	wsClientMu sync.RWMutex
	wsClients  map[int64]*wsClient
	nextWSID   int64

	running atomic.Bool
}

// New creates a telemetry server.
func New(cfg Config) *Server {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	s := &Server{
		source:    cfg.Source,
		addr:      cfg.Addr,
		interval:  interval,
		wsClients: make(map[int64]*wsClient),
	}
	s.wsUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	return s
}

// Handler returns the HTTP handler serving all telemetry endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/stream", s.handleStream)
	return mux
}

// Start serves until Stop is called. It blocks, so run it from its own
// goroutine.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}
	s.running.Store(true)
	logger.WithField("addr", s.addr).Info("telemetry server starting")

	go s.broadcastLoop()

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return errors.TelemetryError("listen", err.Error())
	}
	return nil
}

// Stop shuts the server down and disconnects all stream clients.
func (s *Server) Stop(ctx context.Context) error {
	s.running.Store(false)

	s.wsClientMu.Lock()
	for _, c := range s.wsClients {
		c.close()
	}
	s.wsClients = make(map[int64]*wsClient)
	s.wsClientMu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Status()); err != nil {
		logger.WithError(err).Error("status encode failed")
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	if err := metrics.Global().WritePrometheus(w); err != nil {
		logger.WithError(err).Error("metrics write failed")
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Error("websocket upgrade failed")
		return
	}

	c := s.newWSClient(conn)
	s.wsClientMu.Lock()
	s.wsClients[c.id] = c
	s.wsClientMu.Unlock()

	go c.writePump()
	go c.readPump()

	// immediate snapshot so a client does not wait out the first interval
	c.send(s.source.Status())
}

// broadcastLoop pushes a status snapshot to every stream client at the
// configured interval.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		if !s.running.Load() {
			return
		}
		s.wsClientMu.RLock()
		if len(s.wsClients) == 0 {
			s.wsClientMu.RUnlock()
			continue
		}
		status := s.source.Status()
		for _, c := range s.wsClients {
			c.send(status)
		}
		s.wsClientMu.RUnlock()
	}
}

func (s *Server) removeClient(c *wsClient) {
	s.wsClientMu.Lock()
	delete(s.wsClients, c.id)
	s.wsClientMu.Unlock()
}

// wsClient is one WebSocket stream subscriber.
type wsClient struct {
	id     int64
	conn   *websocket.Conn
	server *Server
	sendCh chan Status
	done   chan struct{}
	mu     sync.Mutex
}

func (s *Server) newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		id:     atomic.AddInt64(&s.nextWSID, 1),
		conn:   conn,
		server: s,
		sendCh: make(chan Status, 16),
		done:   make(chan struct{}),
	}
}

// send queues a snapshot, dropping it if the client cannot keep up.
func (c *wsClient) send(status Status) {
	select {
	case c.sendCh <- status:
	case <-c.done:
	default:
	}
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
	}
	c.conn.Close()
}

// readPump drains the connection so pings and close frames are processed;
// stream clients are not expected to send anything.
func (c *wsClient) readPump() {
	defer func() {
		c.server.removeClient(c)
		c.close()
	}()

	c.conn.SetReadLimit(4 * 1024)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.WithError(err).Debug("websocket read error")
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case status := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(status); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
