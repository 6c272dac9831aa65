package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders what a run left behind: the summary, the ledger file and
// the journal. The transcript is left out so copy changes in prompts do not
// churn every golden file.
func Snapshot(name string, r *Result) []byte {
	var b strings.Builder
	sum := r.Summary

	fmt.Fprintf(&b, "scenario: %s\n", name)
	fmt.Fprintf(&b, "outcome: %s\n", sum.Outcome)
	fmt.Fprintf(&b, "cursor: %d/%d\n", sum.Cursor, sum.Total)
	fmt.Fprintf(&b, "committed: %d verified: %d rejected: %d\n", sum.Committed, sum.Verified, sum.Rejected)
	if r.RunErr != "" {
		fmt.Fprintf(&b, "error: %s\n", r.RunErr)
	}

	b.WriteString("ledger:\n")
	for _, line := range strings.SplitAfter(r.LedgerText, "\n") {
		if line != "" {
			b.WriteString("  " + line)
		}
	}

	b.WriteString("journal:\n")
	for _, d := range r.Decisions {
		fmt.Fprintf(&b, "  #%d record %d %s %s %s %q\n",
			d.Seq, d.RecordIndex, d.ConstructionID, d.Status, d.ParseMethod, d.Trigger)
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario could not run; snapshot mismatches fail t
// through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario.Name, result))

	return result, nil
}
