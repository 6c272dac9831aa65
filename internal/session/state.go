package session

import (
	"fmt"

	"github.com/roach88/constructicon/internal/annotation"
)

// RecordState is the processing phase of one record.
type RecordState int

const (
	StateNotStarted RecordState = iota
	StateAutomaticMatching
	StateManualSupplement
	StateCommitted
)

func (s RecordState) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateAutomaticMatching:
		return "AutomaticMatching"
	case StateManualSupplement:
		return "ManualSupplement"
	case StateCommitted:
		return "Committed"
	default:
		return fmt.Sprintf("RecordState(%d)", int(s))
	}
}

// TransitionError reports an out-of-order state change. It indicates a bug
// in the engine, not an operator or I/O condition.
type TransitionError struct {
	RecordIndex int
	From        RecordState
	To          RecordState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("record %d: invalid transition %s -> %s", e.RecordIndex, e.From, e.To)
}

// recordRun tracks one record through its states and holds the entries
// produced for it.
type recordRun struct {
	index   int
	state   RecordState
	entries []annotation.Entry
}

func newRecordRun(index int) *recordRun {
	return &recordRun{index: index, state: StateNotStarted}
}

// advance moves to the next state. Only the immediate successor is allowed.
func (r *recordRun) advance(to RecordState) error {
	if r.state == StateCommitted || to != r.state+1 {
		return &TransitionError{RecordIndex: r.index, From: r.state, To: to}
	}
	r.state = to
	return nil
}

func (r *recordRun) add(e annotation.Entry) {
	r.entries = append(r.entries, e)
}

type runCounts struct {
	verified int
	rejected int
	manual   int
}

func (r *recordRun) counts() runCounts {
	var c runCounts
	for _, e := range r.entries {
		switch e.Status {
		case annotation.StatusVerified:
			c.verified++
		case annotation.StatusRejected:
			c.rejected++
		}
		if e.Manual() {
			c.manual++
		}
	}
	return c
}
