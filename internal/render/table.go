package render

import (
	"fmt"
	"io"

	"github.com/Abbiirr/simple-procmon/internal/alert"
	"github.com/Abbiirr/simple-procmon/internal/history"
	"github.com/Abbiirr/simple-procmon/internal/identity"
)

// Row is one line of the live table: a tracked process with its rolling
// record and the instantaneous values of the current tick.
type Row struct {
	Record     history.Record
	CPUPercent float64
	MemoryMB   float64
}

// LiveTable writes one table of currently tracked processes. Thresholds
// drive the coloring; zero thresholds render everything green.
func LiveTable(w io.Writer, rows []Row, th alert.Thresholds, width int) {
	if len(rows) == 0 {
		fmt.Fprintln(w, dim+"no matching processes"+reset)
		return
	}
	sparkWidth := 20
	scriptWidth := width - 66 - sparkWidth
	if scriptWidth < 16 {
		scriptWidth = 16
	}

	fmt.Fprintf(w, "%s%-7s %-*s %8s %8s %10s %10s  %-*s%s\n",
		bold, "PID", scriptWidth, "SCRIPT", "CPU%", "AVG%", "MEM MB", "PEAK MB", sparkWidth, "HISTORY", reset)
	for _, row := range rows {
		rec := row.Record
		name := rec.Identity.ScriptPath
		if name == "" {
			name = rec.Identity.DisplayName
		}
		cpuColor := usageColor(row.CPUPercent, th.CPUPercent)
		memColor := usageColor(row.MemoryMB, th.MemoryMB)
		fmt.Fprintf(w, "%-7d %-*s %s%8.1f%s %8.1f %s%10.1f%s %10.1f  %s%s%s\n",
			rec.Identity.PID,
			scriptWidth, identity.Format(name, scriptWidth),
			cpuColor, row.CPUPercent, reset,
			history.Average(rec.CPUWindow),
			memColor, row.MemoryMB, reset,
			rec.PeakMemoryMB,
			cyan, Sparkline(rec.CPUWindow, sparkWidth), reset)
	}
}

// Alerts writes newly fired alert lines.
func Alerts(w io.Writer, events []alert.Event) {
	for _, ev := range events {
		fmt.Fprintf(w, "%s%sALERT%s %s (pid %d): %s %.1f > %.1f\n",
			bold, red, reset, ev.Name, ev.PID, ev.Kind, ev.Value, ev.Threshold)
	}
}
