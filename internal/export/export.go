// Package export writes session results to JSON, CSV (trace mode), and
// HTML chart reports.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Abbiirr/simple-procmon/internal/history"
)

// Meta describes the session an export belongs to.
type Meta struct {
	SessionID   string
	ProcessType string
	Pattern     string
	Started     time.Time
	Finished    time.Time
}

// Write dispatches on the path extension: .json or .html.
func Write(path string, meta Meta, records []history.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return WriteJSON(path, meta, records)
	case ".html":
		return WriteHTML(path, meta, records)
	default:
		return fmt.Errorf("unsupported export format: %s", path)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	return nil
}
