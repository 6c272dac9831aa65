package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/constructicon/internal/catalog"
	"github.com/roach88/constructicon/internal/console"
	"github.com/roach88/constructicon/internal/ledger"
	"github.com/roach88/constructicon/internal/progress"
	"github.com/roach88/constructicon/internal/record"
	"github.com/roach88/constructicon/internal/session"
	"github.com/roach88/constructicon/internal/store"
)

// SessionID is the id every scenario session is given.
const SessionID = "harness-session"

// Run executes a scenario in a fresh scratch directory and returns the
// result. The error is non-nil only when the scenario could not be set up or
// inspected; session failures are part of the Result.
//
// Execution flow:
//  1. Load the catalog and seed records and progress
//  2. Open ledger and journal in the scratch directory
//  3. Replay the operator input through the console
//  4. Collect ledger, journal and progress
//  5. Check Expect and evaluate assertions
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "constructicon-harness-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	// Suppress logs in tests
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cat, err := loadCatalog(scenario.Catalog, logger)
	if err != nil {
		return nil, err
	}

	records := make([]record.Record, len(scenario.Records))
	for i, r := range scenario.Records {
		records[i] = record.Record{ID: r.ID, Text: r.Text}
	}

	progressPath := filepath.Join(dir, "progress.txt")
	if scenario.Cursor > 0 {
		if err := progress.Reset(progressPath, scenario.Cursor); err != nil {
			return nil, fmt.Errorf("failed to seed progress: %w", err)
		}
	}
	tracker := progress.NewFileTracker(progressPath, progress.WithLogger(logger))

	ledgerPath := filepath.Join(dir, "annotations.csv")
	l, err := ledger.Open(ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer l.Close()

	journal, err := store.Open(filepath.Join(dir, "journal.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer journal.Close()

	var transcript bytes.Buffer
	op := console.New(strings.NewReader(scenario.Input), &transcript, console.WithColor(console.ColorNever))

	eng := session.New(cat, record.NewStore(records...), tracker, l, op,
		session.WithJournal(journal),
		session.WithLogger(logger),
		session.WithIDGenerator(session.NewFixedGenerator(SessionID)),
	)
	sum, runErr := eng.Run(ctx)

	result := NewResult()
	result.Summary = sum
	result.Transcript = transcript.String()
	if runErr != nil {
		result.RunErr = runErr.Error()
	}

	if err := l.Close(); err != nil {
		return nil, fmt.Errorf("failed to close ledger: %w", err)
	}
	raw, err := os.ReadFile(ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	result.LedgerText = string(raw)
	if result.Ledger, err = ledger.Parse(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to parse ledger: %w", err)
	}

	if result.Decisions, err = journal.Decisions(ctx, SessionID); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	result.SavedCursor = tracker.Load()

	for _, msg := range checkExpect(scenario.Expect, result) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func loadCatalog(doc string, logger *slog.Logger) (*catalog.Catalog, error) {
	if err := catalog.ValidateSchema([]byte(doc)); err != nil {
		return nil, fmt.Errorf("invalid scenario catalog: %w", err)
	}
	cat, _, err := catalog.Load(strings.NewReader(doc), catalog.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("invalid scenario catalog: %w", err)
	}
	return cat, nil
}

// checkExpect compares the session summary with the expected one.
func checkExpect(want Expect, r *Result) []string {
	var errs []string
	sum := r.Summary

	if got := string(sum.Outcome); got != want.Outcome {
		errs = append(errs, fmt.Sprintf("outcome: expected %s, got %s", want.Outcome, got))
	}
	if sum.Cursor != want.Cursor {
		errs = append(errs, fmt.Sprintf("cursor: expected %d, got %d", want.Cursor, sum.Cursor))
	}
	if r.SavedCursor != sum.Cursor {
		errs = append(errs, fmt.Sprintf("progress file holds %d but summary cursor is %d", r.SavedCursor, sum.Cursor))
	}
	if sum.Verified != want.Verified {
		errs = append(errs, fmt.Sprintf("verified: expected %d, got %d", want.Verified, sum.Verified))
	}
	if sum.Rejected != want.Rejected {
		errs = append(errs, fmt.Sprintf("rejected: expected %d, got %d", want.Rejected, sum.Rejected))
	}

	switch {
	case want.Error == "" && r.RunErr != "":
		errs = append(errs, fmt.Sprintf("unexpected session error: %s", r.RunErr))
	case want.Error != "" && !strings.Contains(r.RunErr, want.Error):
		errs = append(errs, fmt.Sprintf("session error: expected %q, got %q", want.Error, r.RunErr))
	}
	return errs
}
