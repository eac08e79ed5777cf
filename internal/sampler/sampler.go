// Package sampler wraps the OS process table behind small interfaces so
// the poll loop never talks to gopsutil directly.
package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcInfo is one row of the raw process table. Cmdline may be empty on
// platforms where the lister cannot read it.
type ProcInfo struct {
	PID     int32
	PPID    int32
	Name    string
	Cmdline string
}

// Stat is an instantaneous CPU/memory reading for one process.
type Stat struct {
	CPUPercent  float64
	MemoryBytes uint64
	ElapsedMs   int64
}

// Lister enumerates the currently visible processes.
type Lister interface {
	List(ctx context.Context) ([]ProcInfo, error)
}

// Provider returns instantaneous stats for a set of pids. Entries may
// be missing for processes that exited between listing and stat
// collection; callers treat a missing entry as "skip this tick".
type Provider interface {
	GetStats(ctx context.Context, pids []int32) (map[int32]Stat, error)
}

// GopsutilLister lists processes via gopsutil.
type GopsutilLister struct{}

func (GopsutilLister) List(ctx context.Context) ([]ProcInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	out := make([]ProcInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// Process likely exited mid-enumeration; skip it.
			continue
		}
		ppid, _ := p.PpidWithContext(ctx)
		cmdline, _ := p.CmdlineWithContext(ctx)
		out = append(out, ProcInfo{PID: p.Pid, PPID: ppid, Name: name, Cmdline: cmdline})
	}
	return out, nil
}

// GopsutilProvider samples CPU and memory via gopsutil. Process handles
// are cached across ticks because gopsutil computes CPU percent from
// the delta since the previous call on the same handle.
type GopsutilProvider struct {
	mu      sync.Mutex
	handles map[int32]*process.Process
	started map[int32]time.Time
}

func NewGopsutilProvider() *GopsutilProvider {
	return &GopsutilProvider{
		handles: make(map[int32]*process.Process),
		started: make(map[int32]time.Time),
	}
}

func (g *GopsutilProvider) GetStats(ctx context.Context, pids []int32) (map[int32]Stat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	out := make(map[int32]Stat, len(pids))
	for _, pid := range pids {
		p, ok := g.handles[pid]
		if !ok {
			var err error
			p, err = process.NewProcessWithContext(ctx, pid)
			if err != nil {
				// Exited between listing and stat collection.
				continue
			}
			g.handles[pid] = p
			g.started[pid] = now
		}
		cpu, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			slog.Debug("cpu percent unavailable", "pid", pid, "error", err)
			delete(g.handles, pid)
			delete(g.started, pid)
			continue
		}
		mem, err := p.MemoryInfoWithContext(ctx)
		if err != nil {
			slog.Debug("memory info unavailable", "pid", pid, "error", err)
			delete(g.handles, pid)
			delete(g.started, pid)
			continue
		}
		out[pid] = Stat{
			CPUPercent:  cpu,
			MemoryBytes: mem.RSS,
			ElapsedMs:   now.Sub(g.started[pid]).Milliseconds(),
		}
	}
	g.prune(pids)
	return out, nil
}

// prune drops cached handles for pids no longer requested. Caller holds
// g.mu.
func (g *GopsutilProvider) prune(pids []int32) {
	want := make(map[int32]struct{}, len(pids))
	for _, pid := range pids {
		want[pid] = struct{}{}
	}
	for pid := range g.handles {
		if _, ok := want[pid]; !ok {
			delete(g.handles, pid)
			delete(g.started, pid)
		}
	}
}
