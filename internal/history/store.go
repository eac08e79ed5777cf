// Package history keeps bounded per-process rolling statistics for a
// monitoring session.
package history

import (
	"sync"
	"time"
)

// DefaultWindow is the number of samples retained per process.
const DefaultWindow = 100

// Sample is one point-in-time CPU/memory reading for a process.
type Sample struct {
	PID         int32     `json:"pid"`
	CPUPercent  float64   `json:"cpu_percent"`
	MemoryBytes uint64    `json:"memory_bytes"`
	Timestamp   time.Time `json:"timestamp"`
}

// MemoryMB converts the sample's RSS to megabytes.
func (s Sample) MemoryMB() float64 {
	return float64(s.MemoryBytes) / 1024 / 1024
}

// Identity is the resolved human-meaningful identity of a process.
// It is computed once when a process is first sighted and reused for as
// long as the process stays tracked.
type Identity struct {
	PID         int32  `json:"pid"`
	RawCmdline  string `json:"cmdline,omitempty"`
	DisplayName string `json:"display_name"`
	ScriptPath  string `json:"script_path,omitempty"`
}

// Record holds the rolling statistics for one tracked process. CPU and
// memory windows always have equal length and evict strictly FIFO once
// the window is full.
type Record struct {
	Identity     Identity  `json:"identity"`
	Samples      int       `json:"samples"`
	CPUWindow    []float64 `json:"cpu_window"`
	MemoryWindow []float64 `json:"memory_window"` // MB
	PeakCPU      float64   `json:"peak_cpu"`
	PeakMemoryMB float64   `json:"peak_memory_mb"`
	FirstSeen    time.Time `json:"first_seen"`
	LastSeen     time.Time `json:"last_seen"`
}

// Store owns the per-process records for one session. Records are never
// removed: a process that exits stops receiving samples but stays
// available for the final summary. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	records   map[int32]*Record
	order     []int32 // first-seen order for stable snapshots
	maxWindow int
}

// NewStore creates a store with the default window size.
func NewStore() *Store {
	return NewStoreWithWindow(DefaultWindow)
}

// NewStoreWithWindow creates a store with a custom window size
// (values < 1 fall back to the default).
func NewStoreWithWindow(window int) *Store {
	if window < 1 {
		window = DefaultWindow
	}
	return &Store{
		records:   make(map[int32]*Record),
		maxWindow: window,
	}
}

// Record appends a sample for the given process, creating the record on
// first sighting. Both windows grow in lockstep; the oldest entry of
// each is evicted once the window holds maxWindow entries.
func (s *Store) Record(ident Identity, sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[ident.PID]
	if !ok {
		rec = &Record{
			Identity:     ident,
			CPUWindow:    make([]float64, 0, s.maxWindow),
			MemoryWindow: make([]float64, 0, s.maxWindow),
			FirstSeen:    sample.Timestamp,
		}
		s.records[ident.PID] = rec
		s.order = append(s.order, ident.PID)
	}

	memMB := sample.MemoryMB()
	rec.CPUWindow = append(rec.CPUWindow, sample.CPUPercent)
	rec.MemoryWindow = append(rec.MemoryWindow, memMB)
	if len(rec.CPUWindow) > s.maxWindow {
		rec.CPUWindow = rec.CPUWindow[1:]
		rec.MemoryWindow = rec.MemoryWindow[1:]
	}
	rec.Samples++
	rec.LastSeen = sample.Timestamp
	if sample.CPUPercent > rec.PeakCPU {
		rec.PeakCPU = sample.CPUPercent
	}
	if memMB > rec.PeakMemoryMB {
		rec.PeakMemoryMB = memMB
	}
}

// Get returns a copy of the record for pid.
func (s *Store) Get(pid int32) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[pid]
	if !ok {
		return Record{}, false
	}
	return copyRecord(rec), true
}

// Snapshot returns copies of all records in first-seen order.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.order))
	for _, pid := range s.order {
		out = append(out, copyRecord(s.records[pid]))
	}
	return out
}

// Len returns the number of tracked records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Average is the arithmetic mean over the currently retained window
// entries. Evicted samples are gone for good; they do not weigh in.
func Average(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}

func copyRecord(rec *Record) Record {
	out := *rec
	out.CPUWindow = append([]float64(nil), rec.CPUWindow...)
	out.MemoryWindow = append([]float64(nil), rec.MemoryWindow...)
	return out
}
