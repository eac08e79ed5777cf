package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Abbiirr/simple-procmon/internal/history"
)

// Document is the top-level JSON export shape.
type Document struct {
	Timestamp   string           `json:"timestamp"`
	SessionID   string           `json:"sessionId,omitempty"`
	ProcessType string           `json:"processType"`
	Pattern     string           `json:"filterPattern"`
	DurationMs  int64            `json:"durationMs"`
	Processes   []ProcessSummary `json:"processes"`
}

// ProcessSummary is one tracked process in the export document.
type ProcessSummary struct {
	PID           int32     `json:"processId"`
	Name          string    `json:"name"`
	Cmd           string    `json:"cmd,omitempty"`
	Samples       int       `json:"samples"`
	AvgCPU        float64   `json:"avgCPU"`
	PeakCPU       float64   `json:"peakCPU"`
	AvgMemoryMB   float64   `json:"avgMemoryMB"`
	PeakMemoryMB  float64   `json:"peakMemoryMB"`
	CPUHistory    []float64 `json:"cpuHistory"`
	MemoryHistory []float64 `json:"memoryHistory"`
}

// BuildDocument converts session records into the export shape.
func BuildDocument(meta Meta, records []history.Record) Document {
	doc := Document{
		Timestamp:   meta.Finished.Format("2006-01-02T15:04:05Z07:00"),
		SessionID:   meta.SessionID,
		ProcessType: meta.ProcessType,
		Pattern:     meta.Pattern,
		DurationMs:  meta.Finished.Sub(meta.Started).Milliseconds(),
		Processes:   make([]ProcessSummary, 0, len(records)),
	}
	for _, rec := range records {
		name := rec.Identity.DisplayName
		doc.Processes = append(doc.Processes, ProcessSummary{
			PID:           rec.Identity.PID,
			Name:          name,
			Cmd:           rec.Identity.RawCmdline,
			Samples:       rec.Samples,
			AvgCPU:        history.Average(rec.CPUWindow),
			PeakCPU:       rec.PeakCPU,
			AvgMemoryMB:   history.Average(rec.MemoryWindow),
			PeakMemoryMB:  rec.PeakMemoryMB,
			CPUHistory:    rec.CPUWindow,
			MemoryHistory: rec.MemoryWindow,
		})
	}
	return doc
}

// WriteJSON writes the export document to path.
func WriteJSON(path string, meta Meta, records []history.Record) error {
	doc := BuildDocument(meta, records)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
