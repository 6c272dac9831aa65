package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/constructicon/internal/ledger"
)

// NewLedgerCommand creates the ledger command group.
func NewLedgerCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the annotation ledger",
	}

	summary := &cobra.Command{
		Use:           "summary",
		Short:         "Count ledger rows per construction",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			rows, err := ledger.Read(path)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeLedger, "cannot read ledger", err)
			}
			sum := ledger.Summarize(rows)

			return formatter.Render(sum, func(w io.Writer) {
				fmt.Fprintf(w, "%d row(s) across %d record(s), %d pending classification\n",
					sum.Rows, sum.Records, sum.Pending)
				for _, c := range sum.ByConstruction {
					fmt.Fprintf(w, "  %-6s %d\n", c.ConstructionID, c.Rows)
				}
			})
		},
	}
	summary.Flags().StringVar(&path, "ledger", DefaultLedgerPath, "path to the annotation ledger (CSV)")

	cmd.AddCommand(summary)
	return cmd
}
