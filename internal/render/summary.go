package render

import (
	"fmt"
	"io"
	"time"

	"github.com/Abbiirr/simple-procmon/internal/alert"
	"github.com/Abbiirr/simple-procmon/internal/history"
	"github.com/Abbiirr/simple-procmon/internal/identity"
)

// Summary writes the end-of-session report: one line per tracked
// process (exited ones included) followed by grouped alert counts.
func Summary(w io.Writer, records []history.Record, alerts []alert.SummaryRow, elapsed time.Duration) {
	fmt.Fprintf(w, "\n%s── session summary (%s) ──%s\n", bold, elapsed.Round(time.Second), reset)
	if len(records) == 0 {
		fmt.Fprintln(w, dim+"nothing was tracked"+reset)
		return
	}

	fmt.Fprintf(w, "%s%-7s %-40s %8s %8s %8s %10s %10s%s\n",
		bold, "PID", "SCRIPT", "SAMPLES", "AVG%", "PEAK%", "AVG MB", "PEAK MB", reset)
	for _, rec := range records {
		name := rec.Identity.ScriptPath
		if name == "" {
			name = rec.Identity.DisplayName
		}
		fmt.Fprintf(w, "%-7d %-40s %8d %8.1f %8.1f %10.1f %10.1f\n",
			rec.Identity.PID,
			identity.Format(name, 40),
			rec.Samples,
			history.Average(rec.CPUWindow),
			rec.PeakCPU,
			history.Average(rec.MemoryWindow),
			rec.PeakMemoryMB)
	}

	if len(alerts) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%salerts%s\n", bold, reset)
	for _, row := range alerts {
		fmt.Fprintf(w, "  %s%-6s%s %s (pid %d): %d\n", yellow, row.Kind, reset, row.Name, row.PID, row.Count)
	}
}
