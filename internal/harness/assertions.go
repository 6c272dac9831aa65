package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/constructicon/internal/ledger"
)

// AssertionError is returned when an assertion fails.
// It includes the ledger for context.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Ledger   []ledger.Row // Ledger rows for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nLedger:\n")
	for i, row := range e.Ledger {
		fmt.Fprintf(&buf, "  [%d] %s %d %q %q %q %s\n",
			i+1, row.ConstructionID, row.RecordID, row.Trigger, row.Cause, row.Effect, row.Status)
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion against the result and returns
// the failure messages.
func EvaluateAssertions(r *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(r, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %s", i, err))
		}
	}
	return errs
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertLedgerRow:
		return assertLedgerRow(r.Ledger, a)
	case AssertLedgerCount:
		return assertLedgerCount(r.Ledger, a)
	case AssertJournalCount:
		return assertJournalCount(r, a)
	case AssertTranscriptContains:
		return assertTranscriptContains(r.Transcript, a)
	case AssertTranscriptOrder:
		return assertTranscriptOrder(r.Transcript, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertLedgerRow checks that some row matches every column given.
func assertLedgerRow(rows []ledger.Row, a Assertion) error {
	for _, row := range rows {
		if rowMatches(row, a.Row) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertLedgerRow,
		Expected: fmt.Sprintf("row with %v", a.Row),
		Actual:   "not found in ledger",
		Ledger:   rows,
	}
}

func rowMatches(row ledger.Row, want map[string]string) bool {
	got := map[string]string{
		"construction_id": row.ConstructionID,
		"record_id":       strconv.FormatInt(row.RecordID, 10),
		"trigger":         row.Trigger,
		"cause":           row.Cause,
		"effect":          row.Effect,
		"status":          row.Status,
	}
	for col, v := range want {
		if got[col] != v {
			return false
		}
	}
	return true
}

func assertLedgerCount(rows []ledger.Row, a Assertion) error {
	if len(rows) != a.Count {
		return &AssertionError{
			Type:     AssertLedgerCount,
			Expected: fmt.Sprintf("%d row(s)", a.Count),
			Actual:   fmt.Sprintf("%d row(s)", len(rows)),
			Ledger:   rows,
		}
	}
	return nil
}

func assertJournalCount(r *Result, a Assertion) error {
	n := 0
	for _, d := range r.Decisions {
		if a.Status == "" || d.Status == a.Status {
			n++
		}
	}
	if n != a.Count {
		what := "decision(s)"
		if a.Status != "" {
			what = a.Status + " " + what
		}
		return &AssertionError{
			Type:     AssertJournalCount,
			Expected: fmt.Sprintf("%d %s", a.Count, what),
			Actual:   fmt.Sprintf("%d %s", n, what),
			Ledger:   r.Ledger,
		}
	}
	return nil
}

func assertTranscriptContains(transcript string, a Assertion) error {
	if !strings.Contains(transcript, a.Text) {
		return fmt.Errorf("transcript does not contain %q", a.Text)
	}
	return nil
}

// assertTranscriptOrder checks that the texts appear in order. Matches need
// not be adjacent.
func assertTranscriptOrder(transcript string, a Assertion) error {
	rest := transcript
	for i, text := range a.Texts {
		at := strings.Index(rest, text)
		if at < 0 {
			if i > 0 && strings.Contains(transcript, text) {
				return fmt.Errorf("transcript order: %q appears before %q", text, a.Texts[i-1])
			}
			return fmt.Errorf("transcript order: %q not found", text)
		}
		rest = rest[at+len(text):]
	}
	return nil
}
