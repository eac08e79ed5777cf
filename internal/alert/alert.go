// Package alert evaluates resource thresholds over live samples and
// de-duplicates repeated firings with a per-process cooldown.
package alert

import (
	"sort"
	"sync"
	"time"

	"github.com/Abbiirr/simple-procmon/internal/history"
)

// Kind labels what a threshold watches.
type Kind string

const (
	KindCPU    Kind = "cpu"
	KindMemory Kind = "memory"
)

// Cooldown is the minimum gap between two alerts of the same kind for
// the same process.
const Cooldown = 30 * time.Second

// Thresholds configures the engine. A value <= 0 disables that kind
// entirely; it is never checked.
type Thresholds struct {
	CPUPercent float64 `json:"cpu_percent" mapstructure:"cpu"`
	MemoryMB   float64 `json:"memory_mb" mapstructure:"memory"`
}

// Enabled reports whether any threshold is configured.
func (t Thresholds) Enabled() bool {
	return t.CPUPercent > 0 || t.MemoryMB > 0
}

// Event is one threshold crossing. Events are appended to the session
// log and never removed.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	PID       int32     `json:"pid"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
}

// SummaryRow is a grouped alert count for one (process, kind) pair.
type SummaryRow struct {
	PID   int32  `json:"pid"`
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Count int    `json:"count"`
}

type suppressionKey struct {
	pid  int32
	kind Kind
}

// Engine holds the suppression state and the append-only alert log for
// one session. Safe for concurrent use.
type Engine struct {
	mu        sync.Mutex
	lastFired map[suppressionKey]time.Time
	log       []Event
	cooldown  time.Duration
	now       func() time.Time
}

// New creates an engine with the fixed 30s cooldown.
func New() *Engine {
	return &Engine{
		lastFired: make(map[suppressionKey]time.Time),
		cooldown:  Cooldown,
		now:       time.Now,
	}
}

// Check evaluates every sample against the configured thresholds and
// returns only the newly fired events. Thresholds are strict
// greater-than: a value exactly at the threshold does not alert. CPU
// and memory cooldowns are independent per process.
func (e *Engine) Check(samples []history.Sample, th Thresholds, names map[int32]string) []Event {
	if !th.Enabled() {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var fired []Event
	for _, s := range samples {
		if th.CPUPercent > 0 && s.CPUPercent > th.CPUPercent {
			if ev, ok := e.fire(now, s.PID, names[s.PID], KindCPU, s.CPUPercent, th.CPUPercent); ok {
				fired = append(fired, ev)
			}
		}
		if th.MemoryMB > 0 && s.MemoryMB() > th.MemoryMB {
			if ev, ok := e.fire(now, s.PID, names[s.PID], KindMemory, s.MemoryMB(), th.MemoryMB); ok {
				fired = append(fired, ev)
			}
		}
	}
	return fired
}

// fire emits an event unless the (pid, kind) pair is still cooling down.
// Caller holds e.mu.
func (e *Engine) fire(now time.Time, pid int32, name string, kind Kind, value, threshold float64) (Event, bool) {
	k := suppressionKey{pid: pid, kind: kind}
	if last, ok := e.lastFired[k]; ok && now.Sub(last) <= e.cooldown {
		return Event{}, false
	}
	e.lastFired[k] = now
	ev := Event{
		Timestamp: now,
		PID:       pid,
		Name:      name,
		Kind:      kind,
		Value:     value,
		Threshold: threshold,
	}
	e.log = append(e.log, ev)
	return ev, true
}

// Log returns a copy of the full session alert log.
func (e *Engine) Log() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Event(nil), e.log...)
}

// Summarize groups the session log by process and kind, ordered by
// count descending then pid.
func (e *Engine) Summarize() []SummaryRow {
	e.mu.Lock()
	defer e.mu.Unlock()

	counts := make(map[suppressionKey]*SummaryRow)
	for _, ev := range e.log {
		k := suppressionKey{pid: ev.PID, kind: ev.Kind}
		row, ok := counts[k]
		if !ok {
			row = &SummaryRow{PID: ev.PID, Name: ev.Name, Kind: ev.Kind}
			counts[k] = row
		}
		row.Count++
	}
	out := make([]SummaryRow, 0, len(counts))
	for _, row := range counts {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].PID != out[j].PID {
			return out[i].PID < out[j].PID
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}
