package monitor

import (
	"time"

	"github.com/Abbiirr/simple-procmon/internal/alert"
	"github.com/Abbiirr/simple-procmon/internal/history"
	"github.com/Abbiirr/simple-procmon/internal/proctree"
)

// LiveProcess is the instantaneous reading for one matched process in
// the most recent tick.
type LiveProcess struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	Script     string  `json:"script,omitempty"`
	CPUPercent float64 `json:"cpu_percent"`
	MemoryMB   float64 `json:"memory_mb"`
}

// View is the immutable per-tick snapshot handed to readers (terminal
// renderer, dashboard, websocket clients). A fresh View replaces the
// previous one wholesale each tick; nothing inside it is ever mutated
// after publication.
type View struct {
	SessionID  string           `json:"session_id"`
	Timestamp  time.Time        `json:"timestamp"`
	Interval   time.Duration    `json:"interval"`
	Live       []LiveProcess    `json:"live"`
	Records    []history.Record `json:"records"`
	Tree       []*proctree.Node `json:"tree,omitempty"`
	NewAlerts  []alert.Event    `json:"new_alerts,omitempty"`
	AlertCount int              `json:"alert_count"`
}
