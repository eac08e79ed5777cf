package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Abbiirr/simple-procmon/internal/alert"
	"github.com/Abbiirr/simple-procmon/internal/history"
	"github.com/Abbiirr/simple-procmon/internal/proctree"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"empty", nil, 10, ""},
		{"zero width", []float64{1}, 0, ""},
		{"all zero renders floor", []float64{0, 0, 0}, 10, "▁▁▁"},
		{"ramp", []float64{0, 50, 100}, 10, "▁▄█"},
		{"window trims to width", []float64{1, 2, 3, 4, 100}, 2, "▁█"},
		{"flat nonzero is all max", []float64{5, 5}, 10, "██"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sparkline(tt.values, tt.width))
		})
	}
}

func TestBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", Bar(50, 100, 10))
	assert.Equal(t, "██████████", Bar(200, 100, 10))
	assert.Equal(t, "░░░░░░░░░░", Bar(0, 100, 10))
	assert.Equal(t, "", Bar(1, 1, 0))
}

func TestLiveTable(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{
		{
			Record: history.Record{
				Identity:  history.Identity{PID: 42, DisplayName: "python", ScriptPath: "/srv/worker.py"},
				CPUWindow: []float64{10, 20}, MemoryWindow: []float64{50, 60},
				PeakMemoryMB: 61, Samples: 2,
			},
			CPUPercent: 20,
			MemoryMB:   60,
		},
	}
	LiveTable(&buf, rows, alert.Thresholds{CPUPercent: 80}, 120)

	out := buf.String()
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "/srv/worker.py")
	assert.Contains(t, out, "PID")
	assert.Contains(t, out, "HISTORY")
}

func TestLiveTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	LiveTable(&buf, nil, alert.Thresholds{}, 80)
	assert.Contains(t, buf.String(), "no matching processes")
}

func TestTree(t *testing.T) {
	var buf bytes.Buffer
	forest := proctree.Build([]proctree.Node{
		{PID: 1, Name: "parent", CPUPercent: 10},
		{PID: 2, Name: "kid-a", CPUPercent: 8},
		{PID: 3, Name: "kid-b", CPUPercent: 2},
	}, map[int32]int32{2: 1, 3: 1})

	Tree(&buf, forest)
	out := buf.String()
	assert.Contains(t, out, "parent")
	assert.Contains(t, out, "├─ ")
	assert.Contains(t, out, "└─ ")
	// Higher CPU child listed first.
	assert.Less(t, strings.Index(out, "kid-a"), strings.Index(out, "kid-b"))
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	records := []history.Record{
		{
			Identity:  history.Identity{PID: 1, DisplayName: "app.py"},
			Samples:   5,
			CPUWindow: []float64{10, 20}, MemoryWindow: []float64{30, 40},
			PeakCPU: 20, PeakMemoryMB: 40,
		},
	}
	alerts := []alert.SummaryRow{{PID: 1, Name: "app.py", Kind: alert.KindCPU, Count: 3}}

	Summary(&buf, records, alerts, 90*time.Second)
	out := buf.String()
	assert.Contains(t, out, "session summary")
	assert.Contains(t, out, "app.py")
	assert.Contains(t, out, "alerts")
	assert.Contains(t, out, ": 3")
}

func TestAlerts(t *testing.T) {
	var buf bytes.Buffer
	Alerts(&buf, []alert.Event{{PID: 9, Name: "hog", Kind: alert.KindMemory, Value: 900, Threshold: 512}})
	assert.Contains(t, buf.String(), "ALERT")
	assert.Contains(t, buf.String(), "hog")
}
