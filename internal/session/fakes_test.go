package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/constructicon/internal/annotation"
	"github.com/roach88/constructicon/internal/catalog"
	"github.com/roach88/constructicon/internal/record"
	"github.com/roach88/constructicon/internal/store"
)

var errScriptExhausted = errors.New("script exhausted")

// scriptedOperator answers prompts from fixed queues. An empty queue behaves
// like a closed input stream.
type scriptedOperator struct {
	confirms []bool
	spans    []string
	more     []bool
	methods  []catalog.ParseMethod
	conts    []bool

	notes    []string
	shown    []int
	triggers []string
	verdicts []annotation.Status
	asked    []annotation.Field
	manuals  []annotation.Entry
}

func pop[T any](q *[]T, what string) (T, error) {
	var zero T
	if len(*q) == 0 {
		return zero, fmt.Errorf("%s: %w", what, errScriptExhausted)
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v, nil
}

func (o *scriptedOperator) Notify(format string, args ...any) {
	o.notes = append(o.notes, fmt.Sprintf(format, args...))
}

func (o *scriptedOperator) ShowRecord(index, total int, r record.Record) {
	o.shown = append(o.shown, index)
}

func (o *scriptedOperator) ShowCandidate(r record.Record, m catalog.Match) {
	o.triggers = append(o.triggers, m.Trigger)
}

func (o *scriptedOperator) ShowVerdict(r record.Record, m catalog.Match, status annotation.Status) {
	o.verdicts = append(o.verdicts, status)
}

func (o *scriptedOperator) ShowManual(r record.Record, e annotation.Entry) {
	o.manuals = append(o.manuals, e)
}

func (o *scriptedOperator) ConfirmCandidate() (bool, error) {
	return pop(&o.confirms, "confirm")
}

func (o *scriptedOperator) AskSpan(f annotation.Field) (string, error) {
	o.asked = append(o.asked, f)
	return pop(&o.spans, f.String())
}

func (o *scriptedOperator) MoreConnectors() (bool, error) {
	return pop(&o.more, "more connectors")
}

func (o *scriptedOperator) ChooseParseMethod() (catalog.ParseMethod, error) {
	return pop(&o.methods, "parse method")
}

func (o *scriptedOperator) ContinueSession() (bool, error) {
	return pop(&o.conts, "continue")
}

type memTracker struct {
	cursor int
	saves  []int
	err    error
}

func (t *memTracker) Load() int { return t.cursor }

func (t *memTracker) Save(i int) error {
	if t.err != nil {
		return t.err
	}
	t.cursor = i
	t.saves = append(t.saves, i)
	return nil
}

type memLedger struct {
	rows  []annotation.Entry
	calls int
	err   error
}

func (l *memLedger) AppendVerified(entries []annotation.Entry) (int, error) {
	l.calls++
	if l.err != nil {
		return 0, l.err
	}
	v := annotation.Verified(entries)
	l.rows = append(l.rows, v...)
	return len(v), nil
}

// brokenJournal accepts sessions but fails every decision write.
type brokenJournal struct {
	err   error
	ended []string
}

func (j *brokenJournal) BeginSession(ctx context.Context, start store.SessionStart) error {
	return nil
}

func (j *brokenJournal) RecordDecisions(ctx context.Context, sessionID string, recordIndex int, entries []annotation.Entry) error {
	return j.err
}

func (j *brokenJournal) EndSession(ctx context.Context, sessionID string, cursor int, outcome string) error {
	j.ended = append(j.ended, outcome)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func causeCatalog(expr string) *catalog.Catalog {
	c := catalog.New(catalog.WithLogger(quietLogger()))
	if err := c.AddPattern(catalog.MustPattern("<cause> causes <effect>", expr, "C146")); err != nil {
		panic(err)
	}
	return c
}

func stormRecords() *record.Store {
	return record.NewStore(
		record.Record{ID: 1, Text: "The storm caused flooding."},
		record.Record{ID: 2, Text: "No pattern here."},
	)
}
