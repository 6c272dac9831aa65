// Package session implements the annotation session engine.
//
// The engine walks the record store from the persisted cursor, surfaces
// catalog matches for each record, collects the operator's verdicts and any
// manual connectors, and commits the result before moving on.
//
// ARCHITECTURE:
//
// Per-record state machine:
// Every record passes through NotStarted, AutomaticMatching, ManualSupplement
// and Committed, strictly in that order. Commit is the only step with
// durable side effects:
// 1. Verified entries are appended to the ledger (and all decisions to the
// journal, if one is configured)
// 2. The operator is asked whether to continue
// 3. The cursor is saved as i+1, whatever the answer was
//
// Single-threaded, blocking:
// The engine suspends at each operator prompt and waits indefinitely. There
// are no background tasks and no timers. Declining to continue is the only
// cancellation path the operator has, and it always falls on a record
// boundary, so a record is never partially committed.
//
// Failure semantics:
// Operator-channel and sink errors propagate out of Run and end the session.
// The cursor only moves past a record once its decisions are in the ledger,
// so after a crash the worst case is redoing the last record.
package session
