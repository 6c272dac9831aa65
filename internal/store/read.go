package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Decision is one journaled operator decision.
type Decision struct {
	Seq            int64  `json:"seq"`
	SessionID      string `json:"session_id"`
	RecordIndex    int    `json:"record_index"`
	RecordID       int64  `json:"record_id"`
	ConstructionID string `json:"construction_id"`
	Pattern        string `json:"pattern,omitempty"`
	Trigger        string `json:"trigger"`
	Cause          string `json:"cause"`
	Effect         string `json:"effect"`
	Status         string `json:"status"`
	ParseMethod    string `json:"parse_method"`
}

// Decisions returns the decisions of a session ordered by seq.
// Returns an empty slice (not nil) if there are none.
func (s *Store) Decisions(ctx context.Context, sessionID string) ([]Decision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, session_id, record_index, record_id, construction_id, pattern,
		       trigger_text, cause, effect, status, parse_method
		FROM decisions
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	decisions := []Decision{}
	for rows.Next() {
		var d Decision
		if err := rows.Scan(
			&d.Seq, &d.SessionID, &d.RecordIndex, &d.RecordID, &d.ConstructionID, &d.Pattern,
			&d.Trigger, &d.Cause, &d.Effect, &d.Status, &d.ParseMethod,
		); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return decisions, nil
}

// PatternStat is the verification record of one pattern across all sessions.
type PatternStat struct {
	Pattern   string  `json:"pattern"`
	Verified  int     `json:"verified"`
	Rejected  int     `json:"rejected"`
	Precision float64 `json:"precision"`
}

// PatternStats aggregates decisions per pattern, most decided first.
// Manual entries have no pattern and are not included.
func (s *Store) PatternStats(ctx context.Context) ([]PatternStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pattern,
		       SUM(CASE WHEN status = 'Verified' THEN 1 ELSE 0 END) AS verified,
		       SUM(CASE WHEN status = 'Rejected' THEN 1 ELSE 0 END) AS rejected
		FROM decisions
		WHERE pattern != ''
		GROUP BY pattern
		ORDER BY COUNT(*) DESC, pattern COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query pattern stats: %w", err)
	}
	defer rows.Close()

	stats := []PatternStat{}
	for rows.Next() {
		var st PatternStat
		if err := rows.Scan(&st.Pattern, &st.Verified, &st.Rejected); err != nil {
			return nil, fmt.Errorf("scan pattern stat: %w", err)
		}
		if total := st.Verified + st.Rejected; total > 0 {
			st.Precision = float64(st.Verified) / float64(total)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pattern stats: %w", err)
	}
	return stats, nil
}

// SessionInfo summarizes one journaled session.
type SessionInfo struct {
	ID          string `json:"id"`
	StartCursor int    `json:"start_cursor"`
	// EndCursor and Outcome are unset while a session is open or was
	// interrupted before it could be closed.
	EndCursor   *int   `json:"end_cursor,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
	RecordCount int    `json:"record_count"`
	Verified    int    `json:"verified"`
	Rejected    int    `json:"rejected"`
	StartedAt   string `json:"started_at"`
}

// ListSessions returns all sessions in the order they were begun.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.start_cursor, s.end_cursor, s.outcome, s.record_count, s.started_at,
		       COALESCE(SUM(CASE WHEN d.status = 'Verified' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN d.status = 'Rejected' THEN 1 ELSE 0 END), 0)
		FROM sessions s
		LEFT JOIN decisions d ON d.session_id = s.id
		GROUP BY s.id
		ORDER BY s.rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionInfo{}
	for rows.Next() {
		var (
			info      SessionInfo
			endCursor sql.NullInt64
			outcome   sql.NullString
		)
		if err := rows.Scan(
			&info.ID, &info.StartCursor, &endCursor, &outcome, &info.RecordCount, &info.StartedAt,
			&info.Verified, &info.Rejected,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if endCursor.Valid {
			c := int(endCursor.Int64)
			info.EndCursor = &c
		}
		info.Outcome = outcome.String
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
