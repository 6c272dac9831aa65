package harness

import (
	"github.com/roach88/constructicon/internal/ledger"
	"github.com/roach88/constructicon/internal/session"
	"github.com/roach88/constructicon/internal/store"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if the summary matched Expect and every assertion held.
	Pass bool `json:"pass"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	Summary session.Summary `json:"summary"`

	// RunErr is the error the session stopped with, if any.
	RunErr string `json:"run_error,omitempty"`

	// Transcript is everything the console printed.
	Transcript string `json:"transcript"`

	// LedgerText is the raw ledger file; Ledger is its parsed rows.
	LedgerText string       `json:"ledger_text"`
	Ledger     []ledger.Row `json:"ledger"`

	// Decisions are the journaled decisions of the scenario's session.
	Decisions []store.Decision `json:"decisions"`

	// SavedCursor is what the progress file holds after the run.
	SavedCursor int `json:"saved_cursor"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
