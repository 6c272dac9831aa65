// Package harness runs scripted annotation sessions end to end.
//
// A scenario names a catalog, a set of records, a starting cursor and the
// operator's keystrokes. The harness replays the keystrokes through the real
// console against a real CSV ledger, progress file and decision journal in a
// scratch directory, then evaluates the scenario's expectations and
// assertions against what landed on disk.
//
// # Scenario Format
//
//	name: accept_and_reject
//	description: "One candidate accepted, one rejected"
//	catalog: |
//	  constructions: [...]
//	  patterns: [...]
//	records:
//	  - id: 1
//	    text: "The storm caused flooding."
//	cursor: 0
//	input: |
//	  y
//	  The storm
//	  flooding
//	  n
//	  y
//	expect:
//	  outcome: completed
//	  cursor: 1
//	  verified: 1
//	assertions:
//	  - type: ledger_row
//	    row: { construction_id: C146, trigger: caused }
//	  - type: journal_count
//	    status: Rejected
//	    count: 0
//
// # Assertion Types
//
//   - ledger_row: some ledger row matches every field given
//   - ledger_count: the ledger holds exactly count data rows
//   - journal_count: exactly count decisions were journaled, optionally
//     filtered by status
//   - transcript_contains: the console transcript contains text
//   - transcript_order: texts appear in the transcript in the given order
//
// Session ids come from a fixed generator so journal contents and golden
// snapshots are reproducible.
package harness
