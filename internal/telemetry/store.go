package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS telemetry (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	ts              INTEGER NOT NULL,
	kind            TEXT NOT NULL,
	coherence       REAL,
	mirror_residual REAL,
	samples         INTEGER,
	agent           TEXT,
	detail          TEXT
);
CREATE INDEX IF NOT EXISTS idx_telemetry_ts ON telemetry(ts);
`

// Store persists telemetry events in sqlite.
type Store struct {
	db *sqlx.DB
}

// eventRow is the flat sqlite representation of an Event.
type eventRow struct {
	ID             int64    `db:"id"`
	TS             int64    `db:"ts"` // ms since epoch
	Kind           string   `db:"kind"`
	Coherence      *float64 `db:"coherence"`
	MirrorResidual *float64 `db:"mirror_residual"`
	Samples        *int64   `db:"samples"`
	Agent          *string  `db:"agent"`
	Detail         *string  `db:"detail"`
}

// NewStore prepares the telemetry schema on the given database.
func NewStore(db *sqlx.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("telemetry schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends an event. A zero timestamp is filled with the current time.
func (s *Store) Record(ctx context.Context, e *Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	row := eventRow{
		TS:             e.Timestamp.UnixMilli(),
		Kind:           string(e.Kind),
		Coherence:      e.Coherence,
		MirrorResidual: e.MirrorResidual,
		Samples:        e.Samples,
	}
	if e.Agent != "" {
		row.Agent = &e.Agent
	}
	if len(e.Detail) > 0 {
		data, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshal detail: %w", err)
		}
		detail := string(data)
		row.Detail = &detail
	}

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO telemetry (ts, kind, coherence, mirror_residual, samples, agent, detail)
		VALUES (:ts, :kind, :coherence, :mirror_residual, :samples, :agent, :detail)`, &row)
	if err != nil {
		return fmt.Errorf("insert telemetry: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

// RecordTurn appends a turn event and returns it.
func (s *Store) RecordTurn(ctx context.Context, coherence, mirrorResidual float64, samples int64) (*Event, error) {
	e := NewTurn(coherence, mirrorResidual, samples)
	if err := s.Record(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []eventRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, ts, kind, coherence, mirror_residual, samples, agent, detail
		FROM telemetry ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select telemetry: %w", err)
	}

	events := make([]*Event, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// Count returns the total number of stored events.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM telemetry`); err != nil {
		return 0, fmt.Errorf("count telemetry: %w", err)
	}
	return n, nil
}

// ExportJSONL streams all events to w, oldest first, one JSON object per line.
// This matches the thread/telemetry.jsonl interchange format.
func (s *Store) ExportJSONL(ctx context.Context, w io.Writer) error {
	var rows []eventRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, ts, kind, coherence, mirror_residual, samples, agent, detail
		FROM telemetry ORDER BY ts ASC, id ASC`)
	if err != nil {
		return fmt.Errorf("select telemetry: %w", err)
	}

	enc := json.NewEncoder(w)
	for i := range rows {
		e, err := rows[i].toEvent()
		if err != nil {
			return err
		}
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
	}
	return nil
}

func (r *eventRow) toEvent() (*Event, error) {
	e := &Event{
		ID:             r.ID,
		Timestamp:      time.UnixMilli(r.TS).UTC(),
		Kind:           Kind(r.Kind),
		Coherence:      r.Coherence,
		MirrorResidual: r.MirrorResidual,
		Samples:        r.Samples,
	}
	if r.Agent != nil {
		e.Agent = *r.Agent
	}
	if r.Detail != nil && *r.Detail != "" {
		if err := json.Unmarshal([]byte(*r.Detail), &e.Detail); err != nil {
			return nil, fmt.Errorf("decode detail for event %d: %w", r.ID, err)
		}
	}
	return e, nil
}
