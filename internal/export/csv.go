package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// TraceHeader is the column layout of single-process trace files.
var TraceHeader = []string{"timestamp", "elapsed_ms", "cpu_percent", "memory_mb"}

// TraceWriter appends one CSV row per tick for a single traced process.
type TraceWriter struct {
	f *os.File
	w *csv.Writer
}

// NewTraceWriter creates the file and writes the header.
func NewTraceWriter(path string) (*TraceWriter, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(TraceHeader); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &TraceWriter{f: f, w: w}, nil
}

// Append writes one sample row and flushes so a crash loses at most the
// current row.
func (t *TraceWriter) Append(ts time.Time, elapsedMs int64, cpuPercent, memoryMB float64) error {
	row := []string{
		ts.Format(time.RFC3339),
		strconv.FormatInt(elapsedMs, 10),
		strconv.FormatFloat(cpuPercent, 'f', 2, 64),
		strconv.FormatFloat(memoryMB, 'f', 2, 64),
	}
	if err := t.w.Write(row); err != nil {
		return err
	}
	t.w.Flush()
	return t.w.Error()
}

// Close flushes and closes the underlying file.
func (t *TraceWriter) Close() error {
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		_ = t.f.Close()
		return err
	}
	return t.f.Close()
}
