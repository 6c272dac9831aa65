package session

import (
	"context"
	"fmt"

	"github.com/roach88/constructicon/internal/annotation"
	"github.com/roach88/constructicon/internal/record"
	"github.com/roach88/constructicon/internal/store"
)

// Run processes records from the persisted cursor until the operator stops,
// the records run out, or an error occurs. On error the returned Summary
// reflects what was committed before the failure.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	if e.records.Empty() {
		e.operator.Notify("No records to annotate.")
		e.logger.Info("session skipped", "reason", "no records")
		return Summary{Outcome: OutcomeEmpty}, nil
	}

	total := e.records.Len()
	cursor := e.tracker.Load()
	sum := Summary{StartCursor: cursor, Cursor: cursor, Total: total}

	if cursor >= total {
		e.operator.Notify("All records processed!")
		e.logger.Info("session skipped", "reason", "already complete", "cursor", cursor, "total", total)
		sum.Outcome = OutcomeAlreadyComplete
		return sum, nil
	}

	sum.SessionID = e.ids.Generate()
	if cursor > 0 {
		e.operator.Notify("Resuming from record %d", cursor+1)
	}

	if e.journal != nil {
		err := e.journal.BeginSession(ctx, store.SessionStart{
			ID:          sum.SessionID,
			StartCursor: cursor,
			RecordCount: total,
			PatternSize: len(e.catalog.Patterns()),
		})
		if err != nil {
			return e.abort(ctx, sum, fmt.Errorf("begin journal session: %w", err))
		}
	}
	e.logger.Info("session started", "session", sum.SessionID, "cursor", cursor, "total", total)

	for i := cursor; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return e.abort(ctx, sum, err)
		}

		rec, _ := e.records.At(i)
		run, err := e.collect(i, rec, total)
		if err != nil {
			return e.abort(ctx, sum, err)
		}

		cont, saved, err := e.commit(ctx, sum.SessionID, run)
		if saved {
			c := run.counts()
			sum.Cursor = i + 1
			sum.Committed++
			sum.Verified += c.verified
			sum.Rejected += c.rejected
			sum.Manual += c.manual
		}
		if err != nil {
			return e.abort(ctx, sum, err)
		}

		if !cont {
			e.operator.Notify("End of session. Progress saved at record %d of %d.", sum.Cursor, total)
			return e.finish(ctx, sum, OutcomeStopped)
		}
	}

	e.operator.Notify("All records processed!")
	return e.finish(ctx, sum, OutcomeCompleted)
}

// collect runs the automatic and manual phases for one record. Nothing is
// persisted here.
func (e *Engine) collect(index int, rec record.Record, total int) (*recordRun, error) {
	run := newRecordRun(index)
	e.operator.ShowRecord(index, total, rec)

	if err := run.advance(StateAutomaticMatching); err != nil {
		return nil, err
	}
	if err := e.matchAutomatically(run, rec); err != nil {
		return nil, err
	}

	if err := run.advance(StateManualSupplement); err != nil {
		return nil, err
	}
	if err := e.supplementManually(run, rec); err != nil {
		return nil, err
	}
	return run, nil
}

// matchAutomatically asks for a verdict on every catalog match, in catalog
// order. A match is attributed to its pattern's first construction.
func (e *Engine) matchAutomatically(run *recordRun, rec record.Record) error {
	for _, m := range e.catalog.Match(rec.Text) {
		e.operator.ShowCandidate(rec, m)

		accepted, err := e.operator.ConfirmCandidate()
		if err != nil {
			return fmt.Errorf("record %d: confirm candidate: %w", rec.ID, err)
		}

		entry := annotation.Entry{
			ConstructionID: m.ConstructionID(),
			RecordID:       rec.ID,
			Trigger:        m.Trigger,
			Status:         annotation.StatusRejected,
			ParseMethod:    m.Pattern.ParseMethod,
			Pattern:        m.Pattern.Description,
		}
		if accepted {
			if entry.Cause, err = e.operator.AskSpan(annotation.FieldCause); err != nil {
				return fmt.Errorf("record %d: %w", rec.ID, err)
			}
			if entry.Effect, err = e.operator.AskSpan(annotation.FieldEffect); err != nil {
				return fmt.Errorf("record %d: %w", rec.ID, err)
			}
			entry.Status = annotation.StatusVerified
		}

		e.operator.ShowVerdict(rec, m, entry.Status)
		run.add(entry)
	}
	return nil
}

// supplementManually collects operator-entered connectors until the operator
// says there are no more.
func (e *Engine) supplementManually(run *recordRun, rec record.Record) error {
	for {
		more, err := e.operator.MoreConnectors()
		if err != nil {
			return fmt.Errorf("record %d: %w", rec.ID, err)
		}
		if !more {
			return nil
		}

		entry := annotation.Entry{
			ConstructionID: annotation.PendingConstructionID,
			RecordID:       rec.ID,
			Status:         annotation.StatusVerified,
		}
		for _, f := range []struct {
			field annotation.Field
			dst   *string
		}{
			{annotation.FieldTrigger, &entry.Trigger},
			{annotation.FieldCause, &entry.Cause},
			{annotation.FieldEffect, &entry.Effect},
		} {
			if *f.dst, err = e.operator.AskSpan(f.field); err != nil {
				return fmt.Errorf("record %d: %w", rec.ID, err)
			}
		}
		if entry.ParseMethod, err = e.operator.ChooseParseMethod(); err != nil {
			return fmt.Errorf("record %d: %w", rec.ID, err)
		}

		run.add(entry)
		e.operator.ShowManual(rec, entry)
	}
}

// commit flushes the record's entries, asks whether to continue and saves the
// cursor. saved reports whether the cursor moved past the record. The cursor
// is saved even when the continue prompt fails, because the record's
// decisions are already durable at that point.
func (e *Engine) commit(ctx context.Context, sessionID string, run *recordRun) (cont, saved bool, err error) {
	if err := run.advance(StateCommitted); err != nil {
		return false, false, err
	}

	written, err := e.ledger.AppendVerified(run.entries)
	if err != nil {
		return false, false, fmt.Errorf("record index %d: %w", run.index, err)
	}
	if e.journal != nil {
		if err := e.journal.RecordDecisions(ctx, sessionID, run.index, run.entries); err != nil {
			return false, false, fmt.Errorf("record index %d: journal decisions: %w", run.index, err)
		}
	}
	e.entries = append(e.entries, run.entries...)

	c := run.counts()
	e.logger.Debug("record committed",
		"index", run.index,
		"verified", c.verified,
		"rejected", c.rejected,
		"manual", c.manual,
		"ledger_rows", written,
	)
	e.operator.Notify("Saved %d annotation(s) to the ledger.", written)

	cont, askErr := e.operator.ContinueSession()
	if err := e.tracker.Save(run.index + 1); err != nil {
		return false, false, fmt.Errorf("record index %d: %w", run.index, err)
	}
	if askErr != nil {
		return false, true, fmt.Errorf("continue prompt: %w", askErr)
	}
	return cont, true, nil
}

func (e *Engine) finish(ctx context.Context, sum Summary, outcome Outcome) (Summary, error) {
	sum.Outcome = outcome
	if e.journal != nil {
		if err := e.journal.EndSession(ctx, sum.SessionID, sum.Cursor, string(outcome)); err != nil {
			return sum, fmt.Errorf("end journal session: %w", err)
		}
	}
	e.logger.Info("session ended",
		"session", sum.SessionID,
		"outcome", outcome,
		"cursor", sum.Cursor,
		"committed", sum.Committed,
		"verified", sum.Verified,
		"rejected", sum.Rejected,
		"manual", sum.Manual,
	)
	return sum, nil
}

// abort closes the journal session on a best-effort basis and returns err.
func (e *Engine) abort(ctx context.Context, sum Summary, err error) (Summary, error) {
	sum.Outcome = OutcomeAborted
	e.logger.Error("session aborted", "session", sum.SessionID, "cursor", sum.Cursor, "error", err)
	if e.journal != nil {
		if endErr := e.journal.EndSession(context.WithoutCancel(ctx), sum.SessionID, sum.Cursor, string(OutcomeAborted)); endErr != nil {
			e.logger.Warn("failed to close journal session", "session", sum.SessionID, "error", endErr)
		}
	}
	return sum, err
}
