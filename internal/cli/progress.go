package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/constructicon/internal/progress"
)

// ProgressResult reports the saved cursor.
type ProgressResult struct {
	Path   string `json:"path"`
	Cursor int    `json:"cursor"`
}

// NewProgressCommand creates the progress command group.
func NewProgressCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show or reset the saved cursor",
	}
	cmd.PersistentFlags().StringVar(&path, "progress", DefaultProgressPath, "path to the progress file")

	show := &cobra.Command{
		Use:           "show",
		Short:         "Print the index of the next record to annotate",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			logger := newLogger(rootOpts, cmd.ErrOrStderr())
			result := ProgressResult{
				Path:   path,
				Cursor: progress.NewFileTracker(path, progress.WithLogger(logger)).Load(),
			}
			return formatter.Render(result, func(w io.Writer) {
				fmt.Fprintf(w, "Next record: %d\n", result.Cursor)
			})
		},
	}

	var to int
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Move the cursor",
		Long: `Move the cursor so the next session starts at record index --to.
Ledger rows already written are not touched; re-annotating records that are
already in the ledger appends duplicate rows.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			if err := progress.Reset(path, to); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeProgress, "cannot reset progress", err)
			}
			result := ProgressResult{Path: path, Cursor: to}
			return formatter.Render(result, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Cursor reset to %d\n", result.Cursor)
			})
		},
	}
	reset.Flags().IntVar(&to, "to", 0, "record index the next session starts at")

	cmd.AddCommand(show, reset)
	return cmd
}
