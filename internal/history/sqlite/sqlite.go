// Package sqlite persists session samples and alerts to a local SQLite
// file for post-mortem queries.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Abbiirr/simple-procmon/internal/alert"
	"github.com/Abbiirr/simple-procmon/internal/history"
)

// Sink appends samples and alerts to SQLite.
type Sink struct {
	db        *sql.DB
	sessionID string
}

// New creates a sink. DSN formats:
//   - "sqlite:///path/to/file.db"
//   - "/path/to/file.db"
//   - ":memory:"
func New(dsn, sessionID string) (*Sink, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("empty SQLite DSN")
	}
	if strings.HasPrefix(strings.ToLower(dsn), "sqlite://") {
		dsn = strings.TrimPrefix(dsn, "sqlite://")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	s := &Sink{db: db, sessionID: sessionID}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS samples(
			session_id TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			pid INTEGER NOT NULL,
			name TEXT NOT NULL,
			cpu_percent REAL NOT NULL,
			memory_mb REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS alerts(
			session_id TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			pid INTEGER NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			value REAL NOT NULL,
			threshold REAL NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordSample appends one sample row.
func (s *Sink) RecordSample(ctx context.Context, name string, sample history.Sample) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO samples(session_id, timestamp, pid, name, cpu_percent, memory_mb)
		VALUES(?, ?, ?, ?, ?, ?);`,
		s.sessionID, sample.Timestamp.UTC(), sample.PID, name, sample.CPUPercent, sample.MemoryMB())
	return err
}

// RecordAlert appends one alert row.
func (s *Sink) RecordAlert(ctx context.Context, ev alert.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts(session_id, timestamp, pid, name, kind, value, threshold)
		VALUES(?, ?, ?, ?, ?, ?, ?);`,
		s.sessionID, ev.Timestamp.UTC(), ev.PID, ev.Name, string(ev.Kind), ev.Value, ev.Threshold)
	return err
}

// Close releases the database handle.
func (s *Sink) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
