// Package server exposes the monitor's live state over HTTP: a JSON
// API, a websocket stream of snapshots, and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Abbiirr/simple-procmon/internal/metrics"
	"github.com/Abbiirr/simple-procmon/internal/monitor"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard binds to localhost by default; cross-origin pages
	// are allowed so a locally served frontend can connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Router serves the dashboard API for one running monitor.
// Endpoints:
//
//	GET /api/processes   live readings from the latest tick
//	GET /api/tree        process forest (empty unless tree mode is on)
//	GET /api/alerts      full session alert log
//	GET /api/summary     grouped alert counts plus per-process records
//	GET /metrics         Prometheus exposition
//	GET /ws              websocket pushing one snapshot per tick
type Router struct {
	mon *monitor.Monitor
}

// NewRouter builds a router over mon and registers the Prometheus
// collectors.
func NewRouter(mon *monitor.Monitor) *Router {
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		slog.Warn("metrics registration failed", "error", err)
	}
	return &Router{mon: mon}
}

// Handler returns an http.Handler powered by gin that can be mounted in
// any server/mux.
func (r *Router) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET("/", r.handleIndex)
	api := g.Group("/api")
	api.GET("/processes", r.handleProcesses)
	api.GET("/tree", r.handleTree)
	api.GET("/alerts", r.handleAlerts)
	api.GET("/summary", r.handleSummary)
	g.GET("/metrics", gin.WrapH(metrics.Handler()))
	g.GET("/ws", r.handleWS)
	return g
}

// NewServer starts a standalone HTTP server on addr. Cancel ctx to shut
// it down.
func NewServer(ctx context.Context, addr string, mon *monitor.Monitor) *http.Server {
	r := NewRouter(mon)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("dashboard server failed", "addr", addr, "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv
}

type errorResp struct {
	Error string `json:"error"`
}

// view returns the latest snapshot or replies 503 when no tick has
// completed yet.
func (r *Router) view(c *gin.Context) (*monitor.View, bool) {
	v := r.mon.View()
	if v == nil {
		writeJSON(c, http.StatusServiceUnavailable, errorResp{Error: "no samples collected yet"})
		return nil, false
	}
	return v, true
}

func (r *Router) handleProcesses(c *gin.Context) {
	v, ok := r.view(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"session_id": v.SessionID,
		"timestamp":  v.Timestamp,
		"processes":  v.Live,
	})
}

func (r *Router) handleTree(c *gin.Context) {
	v, ok := r.view(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"timestamp": v.Timestamp,
		"tree":      v.Tree,
	})
}

func (r *Router) handleAlerts(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"alerts": r.mon.AlertLog()})
}

func (r *Router) handleSummary(c *gin.Context) {
	v, ok := r.view(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"session_id": v.SessionID,
		"records":    v.Records,
		"alerts":     r.mon.AlertSummary(),
	})
}

// handleWS upgrades the connection and pushes one snapshot per poll
// interval until the client goes away.
func (r *Router) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	interval := time.Second
	if v := r.mon.View(); v != nil && v.Interval > 0 {
		interval = v.Interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Reader goroutine drains control frames and signals close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var lastSent time.Time
	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			v := r.mon.View()
			if v == nil || v.Timestamp.Equal(lastSent) {
				continue
			}
			if err := conn.WriteJSON(v); err != nil {
				slog.Debug("websocket write failed", "error", err)
				return
			}
			lastSent = v.Timestamp
		}
	}
}

func writeJSON(c *gin.Context, code int, v any) {
	c.Header("Content-Type", "application/json")
	c.Status(code)
	_ = json.NewEncoder(c.Writer).Encode(v)
}
