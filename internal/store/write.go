package store

import (
	"context"
	"fmt"

	"github.com/roach88/constructicon/internal/annotation"
)

// SessionStart describes a session at bootstrap.
type SessionStart struct {
	ID          string
	StartCursor int
	RecordCount int
	PatternSize int
}

// BeginSession inserts a session row. IDs must be unique.
func (s *Store) BeginSession(ctx context.Context, start SessionStart) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, start_cursor, record_count, pattern_count)
		VALUES (?, ?, ?, ?)
	`,
		start.ID,
		start.StartCursor,
		start.RecordCount,
		start.PatternSize,
	)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// RecordDecisions journals all decisions made for one record in a single
// transaction. Only Verified and Rejected entries are accepted.
func (s *Store) RecordDecisions(ctx context.Context, sessionID string, recordIndex int, entries []annotation.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record decisions: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO decisions
		(session_id, record_index, record_id, construction_id, pattern, trigger_text, cause, effect, status, parse_method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("record decisions: prepare: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		_, err := stmt.ExecContext(ctx,
			sessionID,
			recordIndex,
			e.RecordID,
			e.ConstructionID,
			e.Pattern,
			e.Trigger,
			e.Cause,
			e.Effect,
			e.Status.String(),
			e.ParseMethod.String(),
		)
		if err != nil {
			return fmt.Errorf("record decisions: entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record decisions: commit: %w", err)
	}
	return nil
}

// EndSession closes a session with its final cursor and outcome. A session
// can be ended once.
func (s *Store) EndSession(ctx context.Context, sessionID string, cursor int, outcome string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET end_cursor = ?, outcome = ?, ended_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ? AND outcome IS NULL
	`, cursor, outcome, sessionID)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("end session: session %q not found or already ended", sessionID)
	}
	return nil
}
