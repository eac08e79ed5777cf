package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abbiirr/simple-procmon/internal/history"
)

func sessionRecords() []history.Record {
	return []history.Record{
		{
			Identity: history.Identity{
				PID:         42,
				DisplayName: "worker.py",
				RawCmdline:  "/usr/bin/python3 /srv/worker.py",
				ScriptPath:  "/srv/worker.py",
			},
			Samples:      150,
			CPUWindow:    []float64{10, 20, 30},
			MemoryWindow: []float64{100, 110, 120},
			PeakCPU:      95,
			PeakMemoryMB: 300,
		},
	}
}

func testMeta() Meta {
	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	return Meta{
		SessionID:   "abc-123",
		ProcessType: "python",
		Pattern:     "worker",
		Started:     start,
		Finished:    start.Add(5 * time.Minute),
	}
}

func TestBuildDocument(t *testing.T) {
	doc := BuildDocument(testMeta(), sessionRecords())

	assert.Equal(t, "python", doc.ProcessType)
	assert.Equal(t, "worker", doc.Pattern)
	assert.Equal(t, int64(5*60*1000), doc.DurationMs)
	require.Len(t, doc.Processes, 1)

	p := doc.Processes[0]
	assert.Equal(t, int32(42), p.PID)
	assert.Equal(t, 150, p.Samples)
	assert.InDelta(t, 20, p.AvgCPU, 1e-9)
	assert.InDelta(t, 110, p.AvgMemoryMB, 1e-9)
	assert.Equal(t, 95.0, p.PeakCPU)
	assert.Equal(t, []float64{10, 20, 30}, p.CPUHistory)
}

func TestWriteJSONKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(path, testMeta(), sessionRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"timestamp", "processType", "filterPattern", "durationMs", "processes"} {
		assert.Contains(t, raw, key)
	}
	procs := raw["processes"].([]any)
	first := procs[0].(map[string]any)
	for _, key := range []string{"processId", "name", "cmd", "samples", "avgCPU", "peakCPU", "avgMemoryMB", "peakMemoryMB", "cpuHistory", "memoryHistory"} {
		assert.Contains(t, first, key)
	}
}

func TestTraceWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.csv")
	w, err := NewTraceWriter(path)
	require.NoError(t, err)

	ts := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	require.NoError(t, w.Append(ts, 2000, 12.345, 64.5))
	require.NoError(t, w.Append(ts.Add(2*time.Second), 4000, 13, 65))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, TraceHeader, rows[0])
	assert.Equal(t, []string{"2026-08-28T12:00:00Z", "2000", "12.35", "64.50"}, rows[1])
}

func TestWriteDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Write(filepath.Join(dir, "a.json"), testMeta(), sessionRecords()))
	require.NoError(t, Write(filepath.Join(dir, "b.html"), testMeta(), sessionRecords()))

	html, err := os.ReadFile(filepath.Join(dir, "b.html"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(html), "worker.py"))

	err = Write(filepath.Join(dir, "c.xml"), testMeta(), nil)
	assert.Error(t, err)
}

func TestWriteCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "out.json")
	require.NoError(t, Write(path, testMeta(), nil))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
