// Package store provides the SQLite decision journal for annotation sessions.
//
// The CSV ledger holds verified annotations only. The journal additionally
// keeps every rejected candidate and the session boundaries, which is what
// pattern precision statistics are computed from.
//
// # Tables
//
//   - sessions: one row per run, closed with the final cursor and outcome
//   - decisions: one row per operator decision, append-only (triggers abort
//     any UPDATE or DELETE)
//
// # Ordering
//
// Decisions are ordered by seq, an AUTOINCREMENT key, never by wall time.
// All of a record's decisions are written in one transaction, so the journal
// never holds part of a record.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
