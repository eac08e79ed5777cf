// Package procmon provides a live CPU/memory monitor for script-heavy
// process trees: it resolves interpreter processes to the script they
// run, keeps rolling per-process statistics, and fires threshold alerts.
package procmon

import (
	"context"
	"net/http"

	"github.com/Abbiirr/simple-procmon/internal/alert"
	"github.com/Abbiirr/simple-procmon/internal/config"
	"github.com/Abbiirr/simple-procmon/internal/history"
	"github.com/Abbiirr/simple-procmon/internal/monitor"
	"github.com/Abbiirr/simple-procmon/internal/server"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Config = config.Config

type Thresholds = alert.Thresholds

type AlertEvent = alert.Event

type Sample = history.Sample

type Record = history.Record

type View = monitor.View

type LiveProcess = monitor.LiveProcess

type Option = monitor.Option

// DefaultConfig returns the baseline configuration: monitor every
// process every two seconds with no alerts, exports, or dashboard.
func DefaultConfig() Config { return config.Default() }

// LoadConfig reads a TOML config file layered over DefaultConfig.
func LoadConfig(path string) (Config, error) { return config.Load(path) }

// Monitor is a thin facade over internal/monitor.Monitor.
// It provides a stable public API for embedding.
type Monitor struct{ inner *monitor.Monitor }

// New builds a monitor; the config should be validated first.
func New(cfg Config, opts ...Option) *Monitor {
	return &Monitor{inner: monitor.New(cfg, opts...)}
}

// Run polls until ctx is cancelled, then writes the session summary and
// any configured export.
func (m *Monitor) Run(ctx context.Context) error { return m.inner.Run(ctx) }

// View returns the latest published snapshot, or nil before the first
// tick completes.
func (m *Monitor) View() *View { return m.inner.View() }

// SessionID identifies this monitoring session.
func (m *Monitor) SessionID() string { return m.inner.SessionID() }

// Alerts returns the full session alert log.
func (m *Monitor) Alerts() []AlertEvent { return m.inner.AlertLog() }

// DashboardHandler returns the HTTP API for a running monitor so it can
// be mounted in an existing mux.
func DashboardHandler(m *Monitor) http.Handler {
	return server.NewRouter(m.inner).Handler()
}

// ServeDashboard starts the dashboard server on addr; cancel ctx to
// shut it down.
func ServeDashboard(ctx context.Context, addr string, m *Monitor) *http.Server {
	return server.NewServer(ctx, addr, m.inner)
}
