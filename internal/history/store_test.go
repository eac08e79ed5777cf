package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mb(n float64) uint64 { return uint64(n * 1024 * 1024) }

func TestStoreCreatesRecordOnFirstSighting(t *testing.T) {
	s := NewStore()
	ident := Identity{PID: 42, DisplayName: "worker.py", ScriptPath: "/srv/worker.py"}
	ts := time.Now()

	s.Record(ident, Sample{PID: 42, CPUPercent: 12.5, MemoryBytes: mb(30), Timestamp: ts})

	rec, ok := s.Get(42)
	require.True(t, ok)
	assert.Equal(t, ident, rec.Identity)
	assert.Equal(t, 1, rec.Samples)
	assert.Equal(t, []float64{12.5}, rec.CPUWindow)
	assert.InDelta(t, 30, rec.MemoryWindow[0], 1e-9)
	assert.Equal(t, ts, rec.FirstSeen)
	assert.Equal(t, ts, rec.LastSeen)
}

func TestStoreWindowEvictsFIFO(t *testing.T) {
	s := NewStore()
	ident := Identity{PID: 1, DisplayName: "app"}

	// 150 sequential memory samples 1..150 MB; CPU mirrors the index.
	for i := 1; i <= 150; i++ {
		s.Record(ident, Sample{
			PID:         1,
			CPUPercent:  float64(i),
			MemoryBytes: mb(float64(i)),
			Timestamp:   time.Unix(int64(i), 0),
		})
	}

	rec, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, 150, rec.Samples)
	require.Len(t, rec.CPUWindow, DefaultWindow)
	require.Len(t, rec.MemoryWindow, DefaultWindow)

	// Retained entries are exactly the last 100 in submission order.
	for i := 0; i < DefaultWindow; i++ {
		assert.InDelta(t, float64(51+i), rec.MemoryWindow[i], 1e-9)
		assert.InDelta(t, float64(51+i), rec.CPUWindow[i], 1e-9)
	}
}

func TestStoreWindowsStayInLockstep(t *testing.T) {
	s := NewStoreWithWindow(5)
	for i := 0; i < 12; i++ {
		s.Record(Identity{PID: 7}, Sample{PID: 7, CPUPercent: float64(i), MemoryBytes: mb(1)})
	}
	rec, _ := s.Get(7)
	assert.Equal(t, len(rec.CPUWindow), len(rec.MemoryWindow))
	assert.Len(t, rec.CPUWindow, 5)
}

func TestStorePeaksSurviveEviction(t *testing.T) {
	s := NewStoreWithWindow(3)
	ident := Identity{PID: 9}
	s.Record(ident, Sample{PID: 9, CPUPercent: 99, MemoryBytes: mb(500)})
	for i := 0; i < 10; i++ {
		s.Record(ident, Sample{PID: 9, CPUPercent: 5, MemoryBytes: mb(10)})
	}
	rec, _ := s.Get(9)
	assert.Equal(t, 99.0, rec.PeakCPU)
	assert.InDelta(t, 500, rec.PeakMemoryMB, 1e-9)
	// The peak sample itself has been evicted from the window.
	assert.NotContains(t, rec.CPUWindow, 99.0)
}

func TestSnapshotFirstSeenOrderAndIsolation(t *testing.T) {
	s := NewStore()
	s.Record(Identity{PID: 3, DisplayName: "c"}, Sample{PID: 3, CPUPercent: 1})
	s.Record(Identity{PID: 1, DisplayName: "a"}, Sample{PID: 1, CPUPercent: 2})
	s.Record(Identity{PID: 2, DisplayName: "b"}, Sample{PID: 2, CPUPercent: 3})
	s.Record(Identity{PID: 3, DisplayName: "ignored"}, Sample{PID: 3, CPUPercent: 4})

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, int32(3), snap[0].Identity.PID)
	assert.Equal(t, int32(1), snap[1].Identity.PID)
	assert.Equal(t, int32(2), snap[2].Identity.PID)
	// Identity is computed once; later values never overwrite it.
	assert.Equal(t, "c", snap[0].Identity.DisplayName)

	// Mutating the snapshot must not leak into the store.
	snap[0].CPUWindow[0] = 777
	rec, _ := s.Get(3)
	assert.Equal(t, 1.0, rec.CPUWindow[0])
}

func TestAverageOverRetainedEntriesOnly(t *testing.T) {
	s := NewStoreWithWindow(2)
	for _, v := range []float64{100, 10, 20} {
		s.Record(Identity{PID: 5}, Sample{PID: 5, CPUPercent: v})
	}
	rec, _ := s.Get(5)
	// The 100 was evicted; it no longer contributes to the mean.
	assert.InDelta(t, 15, Average(rec.CPUWindow), 1e-9)
	assert.Equal(t, 0.0, Average(nil))
}
