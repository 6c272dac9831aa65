package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/constructicon/internal/console"
	"github.com/roach88/constructicon/internal/ledger"
	"github.com/roach88/constructicon/internal/progress"
	"github.com/roach88/constructicon/internal/record"
	"github.com/roach88/constructicon/internal/session"
	"github.com/roach88/constructicon/internal/store"
)

// AnnotateOptions holds flags for the annotate command.
type AnnotateOptions struct {
	*RootOptions
	Records  RecordFlags
	Ledger   string
	Progress string
	Journal  string
	Catalog  string
	Color    string
	Wrap     int

	// IDGenerator allows overriding the session ID source (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator session.IDGenerator
}

// NewAnnotateCommand creates the annotate command.
func NewAnnotateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnnotateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Run an interactive annotation session",
		Long: `Run an interactive annotation session, resuming from the saved cursor.

For each record, every catalog pattern that matches is shown with its trigger
highlighted; accept it and enter the cause and effect spans, or reject it.
Connectors the catalog missed can then be entered by hand. Verified
annotations are appended to the ledger after each record, and the cursor is
saved before the next one starts.

With --format json the dialogue is written to stderr and stdout carries only
the final summary.

Example:
  constructicon annotate
  constructicon annotate --records data.json --journal annotations.db --wrap 100`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(opts, cmd)
		},
	}

	addRecordFlags(cmd, &opts.Records)
	cmd.Flags().StringVar(&opts.Ledger, "ledger", DefaultLedgerPath, "path to the annotation ledger (CSV)")
	cmd.Flags().StringVar(&opts.Progress, "progress", DefaultProgressPath, "path to the progress file")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the SQLite decision journal (optional)")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "catalog YAML file (default: embedded reference catalog)")
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "highlight color (auto|always|never)")
	cmd.Flags().IntVar(&opts.Wrap, "wrap", 0, "wrap record text at this width (0 disables)")

	return cmd
}

func addRecordFlags(cmd *cobra.Command, f *RecordFlags) {
	cmd.Flags().StringVar(&f.Path, "records", DefaultRecordsPath, "path to the JSON record source")
	cmd.Flags().StringVar(&f.IDField, "id-field", record.DefaultIDField, "record field holding the integer id")
	cmd.Flags().StringVar(&f.TextField, "text-field", record.DefaultTextField, "record field holding the narrative text")
}

func runAnnotate(opts *AnnotateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	colorMode, err := console.ParseColorMode(opts.Color)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	src, err := loadCatalog(opts.Catalog, logger)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("catalog %s: %d constructions, %d patterns", src.Origin, src.Stats.Constructions, src.Stats.Patterns)
	records := record.LoadOrEmpty(opts.Records.Path, opts.Records.options(), logger)

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if opts.IDGenerator != nil {
		sessionOpts = append(sessionOpts, session.WithIDGenerator(opts.IDGenerator))
	}

	// An empty store ends the session before the ledger is touched, so the
	// ledger and journal files are only created when there is work to do.
	var sink session.Ledger
	if !records.Empty() {
		l, err := ledger.Open(opts.Ledger)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeLedger, "cannot open ledger", err)
		}
		defer closeLogged(logger, "ledger", l)
		sink = l

		if opts.Journal != "" {
			journal, err := store.Open(opts.Journal)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeJournal, "cannot open journal", err)
			}
			defer closeLogged(logger, "journal", journal)
			sessionOpts = append(sessionOpts, session.WithJournal(journal))
		}
	}

	// In JSON mode stdout carries only the summary; the dialogue moves to
	// stderr.
	dialogue := cmd.OutOrStdout()
	if opts.Format == "json" {
		dialogue = cmd.ErrOrStderr()
	}
	op := console.New(cmd.InOrStdin(), dialogue,
		console.WithColor(colorMode),
		console.WithWrap(opts.Wrap),
	)
	tracker := progress.NewFileTracker(opts.Progress, progress.WithLogger(logger))

	eng := session.New(src.Catalog, records, tracker, sink, op, sessionOpts...)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sum, runErr := eng.Run(ctx)
	if runErr != nil {
		if errors.Is(runErr, console.ErrInputClosed) {
			return formatter.Fail(ExitFailure, ErrCodeInputClosed,
				fmt.Sprintf("input closed; progress saved at record %d of %d", sum.Cursor, sum.Total), runErr)
		}
		return formatter.Fail(ExitFailure, ErrCodeSessionFailed, "session stopped by an error", runErr)
	}

	return formatter.Render(sum, func(w io.Writer) {
		if sum.Outcome == session.OutcomeStopped || sum.Outcome == session.OutcomeCompleted {
			fmt.Fprintf(w, "Session %s: %d record(s) committed, %d verified, %d rejected.\n",
				sum.Outcome, sum.Committed, sum.Verified, sum.Rejected)
		}
	})
}

func closeLogged(logger *slog.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Error("error closing "+what, "error", err)
	}
}
