package session

import (
	"context"
	"log/slog"

	"github.com/roach88/constructicon/internal/annotation"
	"github.com/roach88/constructicon/internal/catalog"
	"github.com/roach88/constructicon/internal/record"
	"github.com/roach88/constructicon/internal/store"
)

// Matcher surfaces candidate matches for a record text.
// Implemented by *catalog.Catalog.
type Matcher interface {
	Match(text string) []catalog.Match
	Patterns() []catalog.Pattern
}

// Records is the ordered input. Implemented by *record.Store.
type Records interface {
	Len() int
	Empty() bool
	At(i int) (record.Record, bool)
}

// ProgressTracker persists the index of the next record to process.
// Implemented by *progress.FileTracker.
type ProgressTracker interface {
	Load() int
	Save(i int) error
}

// Ledger is the durable sink for verified entries.
// Implemented by *ledger.CSVLedger.
type Ledger interface {
	AppendVerified(entries []annotation.Entry) (int, error)
}

// Journal records every decision, including rejections.
// Implemented by *store.Store.
type Journal interface {
	BeginSession(ctx context.Context, start store.SessionStart) error
	RecordDecisions(ctx context.Context, sessionID string, recordIndex int, entries []annotation.Entry) error
	EndSession(ctx context.Context, sessionID string, cursor int, outcome string) error
}

// Operator is the human side of the session. Show methods only present
// information; the remaining methods block until the operator answers.
type Operator interface {
	Notify(format string, args ...any)
	ShowRecord(index, total int, r record.Record)
	ShowCandidate(r record.Record, m catalog.Match)
	ShowVerdict(r record.Record, m catalog.Match, status annotation.Status)
	ShowManual(r record.Record, e annotation.Entry)

	ConfirmCandidate() (bool, error)
	AskSpan(f annotation.Field) (string, error)
	MoreConnectors() (bool, error)
	ChooseParseMethod() (catalog.ParseMethod, error)
	ContinueSession() (bool, error)
}

// Outcome is how a session ended.
type Outcome string

const (
	// OutcomeEmpty: the record store had nothing to annotate.
	OutcomeEmpty Outcome = "empty"
	// OutcomeAlreadyComplete: the cursor was already past the last record.
	OutcomeAlreadyComplete Outcome = "already_complete"
	// OutcomeStopped: the operator declined to continue.
	OutcomeStopped Outcome = "stopped"
	// OutcomeCompleted: the last record was committed.
	OutcomeCompleted Outcome = "completed"
	// OutcomeAborted: an error ended the session.
	OutcomeAborted Outcome = "aborted"
)

// Summary describes a finished Run.
type Summary struct {
	SessionID   string  `json:"session_id,omitempty"`
	StartCursor int     `json:"start_cursor"`
	Cursor      int     `json:"cursor"`
	Total       int     `json:"total"`
	Committed   int     `json:"committed"`
	Verified    int     `json:"verified"`
	Rejected    int     `json:"rejected"`
	Manual      int     `json:"manual"`
	Outcome     Outcome `json:"outcome"`
}

// Engine runs annotation sessions. An Engine is single-use per Run call and
// must not be shared between goroutines.
type Engine struct {
	catalog  Matcher
	records  Records
	tracker  ProgressTracker
	ledger   Ledger
	operator Operator
	journal  Journal
	ids      IDGenerator
	logger   *slog.Logger

	entries []annotation.Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithJournal records every decision to j in addition to the ledger.
func WithJournal(j Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithIDGenerator sets the session ID source. Defaults to UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// New creates an Engine over explicitly owned collaborators.
func New(cat Matcher, records Records, tracker ProgressTracker, ledger Ledger, op Operator, opts ...Option) *Engine {
	e := &Engine{
		catalog:  cat,
		records:  records,
		tracker:  tracker,
		ledger:   ledger,
		operator: op,
		ids:      UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Entries returns every entry produced so far in this engine, verified and
// rejected, in creation order. Rejected entries never reach the ledger and
// are kept here for traceability.
func (e *Engine) Entries() []annotation.Entry {
	return append([]annotation.Entry(nil), e.entries...)
}
