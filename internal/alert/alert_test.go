package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abbiirr/simple-procmon/internal/history"
)

func newTestEngine(start time.Time) (*Engine, *time.Time) {
	e := New()
	now := start
	e.now = func() time.Time { return now }
	return e, &now
}

func cpuSample(pid int32, cpu float64) history.Sample {
	return history.Sample{PID: pid, CPUPercent: cpu}
}

func memSample(pid int32, mb float64) history.Sample {
	return history.Sample{PID: pid, MemoryBytes: uint64(mb * 1024 * 1024)}
}

func TestCheckFiresOnStrictGreaterThan(t *testing.T) {
	e, _ := newTestEngine(time.Unix(0, 0))
	th := Thresholds{CPUPercent: 80}

	// Exactly at threshold: no alert.
	fired := e.Check([]history.Sample{cpuSample(1, 80)}, th, nil)
	assert.Empty(t, fired)

	fired = e.Check([]history.Sample{cpuSample(1, 80.1)}, th, map[int32]string{1: "app"})
	require.Len(t, fired, 1)
	assert.Equal(t, KindCPU, fired[0].Kind)
	assert.Equal(t, "app", fired[0].Name)
	assert.Equal(t, 80.1, fired[0].Value)
	assert.Equal(t, 80.0, fired[0].Threshold)
}

func TestCheckCooldownSuppressesRepeat(t *testing.T) {
	e, now := newTestEngine(time.Unix(1000, 0))
	th := Thresholds{CPUPercent: 80}
	breach := []history.Sample{cpuSample(1, 85)}

	fired := e.Check(breach, th, nil)
	require.Len(t, fired, 1)

	// Second breach 10s later, well inside the 30s cooldown.
	*now = now.Add(10 * time.Second)
	fired = e.Check(breach, th, nil)
	assert.Empty(t, fired)
	assert.Len(t, e.Log(), 1)

	// Past the cooldown it fires again.
	*now = now.Add(21 * time.Second)
	fired = e.Check(breach, th, nil)
	assert.Len(t, fired, 1)
	assert.Len(t, e.Log(), 2)
}

func TestCheckKindsAreIndependent(t *testing.T) {
	e, now := newTestEngine(time.Unix(0, 0))
	th := Thresholds{CPUPercent: 50, MemoryMB: 100}

	fired := e.Check([]history.Sample{cpuSample(1, 60)}, th, nil)
	require.Len(t, fired, 1)
	assert.Equal(t, KindCPU, fired[0].Kind)

	// CPU is cooling down but a memory breach on the same pid still fires.
	*now = now.Add(5 * time.Second)
	s := memSample(1, 200)
	s.CPUPercent = 60
	fired = e.Check([]history.Sample{s}, th, nil)
	require.Len(t, fired, 1)
	assert.Equal(t, KindMemory, fired[0].Kind)
}

func TestCheckOmittedKindNeverChecked(t *testing.T) {
	e, _ := newTestEngine(time.Unix(0, 0))
	// Only memory configured; a huge CPU value must not alert.
	th := Thresholds{MemoryMB: 100}
	fired := e.Check([]history.Sample{cpuSample(1, 99.9)}, th, nil)
	assert.Empty(t, fired)

	// Nothing configured at all.
	fired = e.Check([]history.Sample{cpuSample(1, 99.9), memSample(2, 9999)}, Thresholds{}, nil)
	assert.Empty(t, fired)
}

func TestCheckSeparateProcessesFireSeparately(t *testing.T) {
	e, _ := newTestEngine(time.Unix(0, 0))
	th := Thresholds{CPUPercent: 10}
	fired := e.Check([]history.Sample{cpuSample(1, 20), cpuSample(2, 30)}, th, nil)
	assert.Len(t, fired, 2)
}

func TestSummarize(t *testing.T) {
	e, now := newTestEngine(time.Unix(0, 0))
	th := Thresholds{CPUPercent: 10, MemoryMB: 50}
	names := map[int32]string{1: "api", 2: "worker"}

	for i := 0; i < 3; i++ {
		s := cpuSample(1, 90)
		e.Check([]history.Sample{s, memSample(2, 80)}, th, names)
		*now = now.Add(Cooldown + time.Second)
	}
	e.Check([]history.Sample{memSample(1, 80)}, th, names)

	rows := e.Summarize()
	require.Len(t, rows, 3)
	assert.Equal(t, SummaryRow{PID: 1, Name: "api", Kind: KindCPU, Count: 3}, rows[0])
	assert.Equal(t, SummaryRow{PID: 2, Name: "worker", Kind: KindMemory, Count: 3}, rows[1])
	assert.Equal(t, SummaryRow{PID: 1, Name: "api", Kind: KindMemory, Count: 1}, rows[2])
}
