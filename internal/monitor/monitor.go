// Package monitor runs the poll loop: list, filter, sample, record,
// alert, and publish a snapshot once per interval. At most one tick is
// in flight at a time.
package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Abbiirr/simple-procmon/internal/alert"
	"github.com/Abbiirr/simple-procmon/internal/config"
	"github.com/Abbiirr/simple-procmon/internal/export"
	"github.com/Abbiirr/simple-procmon/internal/history"
	"github.com/Abbiirr/simple-procmon/internal/identity"
	"github.com/Abbiirr/simple-procmon/internal/metrics"
	"github.com/Abbiirr/simple-procmon/internal/proctree"
	"github.com/Abbiirr/simple-procmon/internal/render"
	"github.com/Abbiirr/simple-procmon/internal/sampler"
)

// Sink receives every recorded sample and fired alert, e.g. the SQLite
// session store. Sink errors never interrupt the loop.
type Sink interface {
	RecordSample(ctx context.Context, name string, s history.Sample) error
	RecordAlert(ctx context.Context, ev alert.Event) error
}

// Monitor owns the cross-tick state of one session. It is driven by a
// single goroutine; readers only ever see the atomically published View.
type Monitor struct {
	cfg      config.Config
	lister   sampler.Lister
	provider sampler.Provider
	resolver *sampler.CmdlineResolver
	store    *history.Store
	alerts   *alert.Engine
	idents   map[int32]history.Identity
	view     atomic.Pointer[View]

	sink  Sink
	trace *export.TraceWriter
	out   io.Writer

	sessionID string
	started   time.Time
	now       func() time.Time
}

// Option customizes a Monitor, mainly for wiring fakes in tests.
type Option func(*Monitor)

// WithLister replaces the process lister.
func WithLister(l sampler.Lister) Option { return func(m *Monitor) { m.lister = l } }

// WithProvider replaces the sample provider.
func WithProvider(p sampler.Provider) Option { return func(m *Monitor) { m.provider = p } }

// WithSink attaches a session sink.
func WithSink(s Sink) Option { return func(m *Monitor) { m.sink = s } }

// WithOutput directs live rendering to w; nil disables rendering.
func WithOutput(w io.Writer) Option { return func(m *Monitor) { m.out = w } }

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option { return func(m *Monitor) { m.now = now } }

// New builds a monitor for the given (already validated) config.
func New(cfg config.Config, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:       cfg,
		lister:    sampler.GopsutilLister{},
		provider:  sampler.NewGopsutilProvider(),
		resolver:  sampler.NewCmdlineResolver(),
		store:     history.NewStore(),
		alerts:    alert.New(),
		idents:    make(map[int32]history.Identity),
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SessionID identifies this monitoring session in exports and sinks.
func (m *Monitor) SessionID() string { return m.sessionID }

// View returns the most recently published snapshot, or nil before the
// first tick completes.
func (m *Monitor) View() *View { return m.view.Load() }

// AlertLog returns a copy of the full session alert log.
func (m *Monitor) AlertLog() []alert.Event { return m.alerts.Log() }

// AlertSummary returns the grouped alert counts for the session so far.
func (m *Monitor) AlertSummary() []alert.SummaryRow { return m.alerts.Summarize() }

// Run drives the poll loop until ctx is cancelled, then flushes the
// final summary and any configured export. A tick that outlasts the
// interval simply delays the next one; ticks never overlap.
func (m *Monitor) Run(ctx context.Context) error {
	m.started = m.now()

	if m.cfg.TracePID != 0 {
		path := m.cfg.TracePath
		if path == "" {
			path = fmt.Sprintf("trace_%d.csv", m.cfg.TracePID)
		}
		tw, err := export.NewTraceWriter(path)
		if err != nil {
			return fmt.Errorf("open trace output: %w", err)
		}
		m.trace = tw
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return m.finish(ctx)
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick performs one full poll cycle. Provider failures skip the whole
// tick; individual missing stats skip just that process. Neither is
// fatal; the next scheduled tick is the only retry mechanism.
func (m *Monitor) tick(ctx context.Context) {
	start := m.now()

	procs, err := m.lister.List(ctx)
	if err != nil {
		slog.Warn("process listing failed, skipping tick", "error", err)
		return
	}

	var filtered []sampler.ProcInfo
	for _, p := range procs {
		if m.matches(p) {
			filtered = append(filtered, p)
		}
	}
	pids := make([]int32, 0, len(filtered))
	for _, p := range filtered {
		pids = append(pids, p.PID)
	}

	stats, err := m.provider.GetStats(ctx, pids)
	if err != nil {
		slog.Warn("sample provider unavailable, skipping tick", "error", err)
		return
	}

	now := m.now()
	seen := make(map[int32]struct{}, len(filtered))
	names := make(map[int32]string, len(filtered))
	live := make([]LiveProcess, 0, len(filtered))
	samples := make([]history.Sample, 0, len(filtered))
	treeNodes := make([]proctree.Node, 0, len(filtered))
	parents := make(map[int32]int32, len(filtered))

	metrics.ResetProcesses(len(filtered))
	for _, p := range filtered {
		st, ok := stats[p.PID]
		if !ok {
			// Exited between listing and stat collection.
			continue
		}
		ident := m.identityFor(ctx, p)
		s := history.Sample{
			PID:         p.PID,
			CPUPercent:  st.CPUPercent,
			MemoryBytes: st.MemoryBytes,
			Timestamp:   now,
		}
		m.store.Record(ident, s)
		seen[p.PID] = struct{}{}
		names[p.PID] = ident.DisplayName
		samples = append(samples, s)
		live = append(live, LiveProcess{
			PID:        p.PID,
			Name:       p.Name,
			Script:     ident.ScriptPath,
			CPUPercent: st.CPUPercent,
			MemoryMB:   s.MemoryMB(),
		})
		parents[p.PID] = p.PPID
		treeNodes = append(treeNodes, proctree.Node{
			PID:        p.PID,
			PPID:       p.PPID,
			Name:       p.Name,
			Script:     ident.ScriptPath,
			CPUPercent: st.CPUPercent,
			MemoryMB:   s.MemoryMB(),
		})
		metrics.ObserveProcess(p.PID, ident.DisplayName, st.CPUPercent, s.MemoryMB())

		if m.sink != nil {
			if err := m.sink.RecordSample(ctx, ident.DisplayName, s); err != nil {
				slog.Debug("sink sample write failed", "pid", p.PID, "error", err)
			}
		}
		if m.trace != nil && p.PID == m.cfg.TracePID {
			if err := m.trace.Append(now, st.ElapsedMs, st.CPUPercent, s.MemoryMB()); err != nil {
				slog.Warn("trace write failed", "error", err)
			}
		}
	}
	m.dropVanished(seen)

	fired := m.alerts.Check(samples, m.cfg.Thresholds, names)
	for _, ev := range fired {
		metrics.IncAlert(ev.Name, string(ev.Kind))
		if m.sink != nil {
			if err := m.sink.RecordAlert(ctx, ev); err != nil {
				slog.Debug("sink alert write failed", "pid", ev.PID, "error", err)
			}
		}
	}

	var forest []*proctree.Node
	if m.cfg.Tree {
		forest = proctree.Build(treeNodes, parents)
	}

	view := &View{
		SessionID:  m.sessionID,
		Timestamp:  now,
		Interval:   m.cfg.Interval,
		Live:       live,
		Records:    m.store.Snapshot(),
		Tree:       forest,
		NewAlerts:  fired,
		AlertCount: len(m.alerts.Log()),
	}
	m.view.Store(view)
	metrics.ObserveTick(m.now().Sub(start).Seconds())
	m.render(view)
}

// identityFor returns the cached identity for a process, computing it
// on first sighting. A pid that vanished and came back is recomputed
// because dropVanished evicted the stale entry.
func (m *Monitor) identityFor(ctx context.Context, p sampler.ProcInfo) history.Identity {
	if ident, ok := m.idents[p.PID]; ok {
		return ident
	}
	cmdline := p.Cmdline
	if cmdline == "" && m.resolver != nil {
		cmdline = m.resolver.Resolve(ctx, p.PID)
	}
	script := identity.Extract(cmdline)
	display := script
	if display == "" {
		display = p.Name
	}
	ident := history.Identity{
		PID:         p.PID,
		RawCmdline:  cmdline,
		DisplayName: display,
		ScriptPath:  script,
	}
	m.idents[p.PID] = ident
	return ident
}

func (m *Monitor) dropVanished(seen map[int32]struct{}) {
	for pid := range m.idents {
		if _, ok := seen[pid]; !ok {
			delete(m.idents, pid)
			if m.resolver != nil {
				m.resolver.Forget(pid)
			}
		}
	}
}

func (m *Monitor) render(view *View) {
	if m.out == nil {
		return
	}
	fmt.Fprintf(m.out, "\n[%s] %d tracked\n", view.Timestamp.Format("15:04:05"), len(view.Live))
	if m.cfg.Tree {
		render.Tree(m.out, view.Tree)
	} else {
		rows := make([]render.Row, 0, len(view.Live))
		byPID := make(map[int32]history.Record, len(view.Records))
		for _, rec := range view.Records {
			byPID[rec.Identity.PID] = rec
		}
		for _, lp := range view.Live {
			rows = append(rows, render.Row{
				Record:     byPID[lp.PID],
				CPUPercent: lp.CPUPercent,
				MemoryMB:   lp.MemoryMB,
			})
		}
		render.LiveTable(m.out, rows, m.cfg.Thresholds, render.TerminalWidth())
	}
	render.Alerts(m.out, view.NewAlerts)
}

// finish flushes the final summary and runs the configured export.
// In-flight samples are not awaited; whatever the store holds now is
// the session result.
func (m *Monitor) finish(ctx context.Context) error {
	_ = ctx
	elapsed := m.now().Sub(m.started)

	if m.trace != nil {
		if err := m.trace.Close(); err != nil {
			slog.Warn("closing trace file failed", "error", err)
		}
	}

	records := m.store.Snapshot()
	if m.out != nil {
		render.Summary(m.out, records, m.alerts.Summarize(), elapsed)
	}

	if m.cfg.ExportPath != "" {
		meta := export.Meta{
			SessionID:   m.sessionID,
			ProcessType: m.cfg.ProcessType,
			Pattern:     m.cfg.Pattern,
			Started:     m.started,
			Finished:    m.now(),
		}
		if err := export.Write(m.cfg.ExportPath, meta, records); err != nil {
			return fmt.Errorf("export session: %w", err)
		}
		slog.Info("session exported", "path", m.cfg.ExportPath, "processes", len(records))
	}
	return nil
}
