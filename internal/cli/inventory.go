package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/constructicon/internal/catalog"
	"github.com/roach88/constructicon/internal/ledger"
	"github.com/roach88/constructicon/internal/progress"
	"github.com/roach88/constructicon/internal/record"
)

// InventoryOptions holds flags for the inventory command.
type InventoryOptions struct {
	*RootOptions
	Records  RecordFlags
	Ledger   string
	Progress string
	Catalog  string
}

// InventoryResult counts every input and output of a session.
type InventoryResult struct {
	Constructions      int                   `json:"constructions"`
	SampleConstruction *catalog.Construction `json:"sample_construction,omitempty"`
	Patterns           int                   `json:"patterns"`
	SamplePattern      *catalog.Pattern      `json:"sample_pattern,omitempty"`
	Records            int                   `json:"records"`
	SampleRecord       *record.Record        `json:"sample_record,omitempty"`
	LedgerRows         int                   `json:"ledger_rows"`
	Cursor             int                   `json:"cursor"`
}

// NewInventoryCommand creates the inventory command.
func NewInventoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InventoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Count catalog entries, records and ledger rows",
		Long: `Print how many constructions, patterns, records and ledger rows are
available, with one sample of each, and the saved cursor. Useful as a sanity
check before starting a session.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInventory(opts, cmd)
		},
	}

	addRecordFlags(cmd, &opts.Records)
	cmd.Flags().StringVar(&opts.Ledger, "ledger", DefaultLedgerPath, "path to the annotation ledger (CSV)")
	cmd.Flags().StringVar(&opts.Progress, "progress", DefaultProgressPath, "path to the progress file")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "catalog YAML file (default: embedded reference catalog)")

	return cmd
}

func runInventory(opts *InventoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	src, err := loadCatalog(opts.Catalog, logger)
	if err != nil {
		return failLoad(formatter, err)
	}
	records, err := loadRecords(opts.Records)
	if err != nil {
		return failLoad(formatter, err)
	}
	rows, err := ledger.Read(opts.Ledger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLedger, "cannot read ledger", err)
	}

	result := InventoryResult{
		Constructions: len(src.Catalog.Constructions()),
		Patterns:      len(src.Catalog.Patterns()),
		Records:       records.Len(),
		LedgerRows:    len(rows),
		Cursor:        progress.NewFileTracker(opts.Progress, progress.WithLogger(logger)).Load(),
	}
	if cons := src.Catalog.Constructions(); len(cons) > 0 {
		result.SampleConstruction = &cons[0]
	}
	if pats := src.Catalog.Patterns(); len(pats) > 0 {
		result.SamplePattern = &pats[0]
	}
	if r, ok := records.At(0); ok {
		result.SampleRecord = &r
	}

	return formatter.Render(result, func(w io.Writer) {
		fmt.Fprintf(w, "Constructions: %d\n", result.Constructions)
		if c := result.SampleConstruction; c != nil {
			fmt.Fprintf(w, "  sample: %s %s\n", c.ID, c.Template)
		}
		fmt.Fprintf(w, "Patterns: %d\n", result.Patterns)
		if p := result.SamplePattern; p != nil {
			fmt.Fprintf(w, "  sample: %s -> %s\n", p.Description, p.PrimaryConstructionID())
		}
		fmt.Fprintf(w, "Records: %d\n", result.Records)
		if r := result.SampleRecord; r != nil {
			fmt.Fprintf(w, "  sample: %d %s\n", r.ID, r.Text)
		}
		fmt.Fprintf(w, "Ledger rows: %d\n", result.LedgerRows)
		fmt.Fprintf(w, "Cursor: %d of %d\n", result.Cursor, result.Records)
	})
}
