package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/constructicon/internal/store"
)

// StatsResult is the journal report.
type StatsResult struct {
	Sessions []store.SessionInfo `json:"sessions"`
	Patterns []store.PatternStat `json:"patterns"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report sessions and pattern precision from the journal",
		Long: `Report every journaled session and, per pattern, how many of its
candidates were verified or rejected. Precision is verified / (verified + rejected).

Example:
  constructicon stats --journal annotations.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&path, "journal", "", "path to the SQLite decision journal")
	_ = cmd.MarkFlagRequired("journal")

	return cmd
}

func runStats(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := newLogger(opts, cmd.ErrOrStderr())

	// store.Open would create an empty journal.
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("journal not found: %s", path), err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "cannot open journal", err)
	}

	st, err := store.Open(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "cannot open journal", err)
	}
	defer closeLogged(logger, "journal", st)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var result StatsResult
	if result.Sessions, err = st.ListSessions(ctx); err != nil {
		return formatter.Fail(ExitFailure, ErrCodeJournal, "cannot list sessions", err)
	}
	if result.Patterns, err = st.PatternStats(ctx); err != nil {
		return formatter.Fail(ExitFailure, ErrCodeJournal, "cannot aggregate pattern stats", err)
	}

	return formatter.Render(result, func(w io.Writer) {
		fmt.Fprintf(w, "Sessions: %d\n", len(result.Sessions))
		for _, s := range result.Sessions {
			end, outcome := "-", "open"
			if s.EndCursor != nil {
				end = fmt.Sprint(*s.EndCursor)
			}
			if s.Outcome != "" {
				outcome = s.Outcome
			}
			fmt.Fprintf(w, "  %s  %d -> %s  %-16s %d verified, %d rejected\n",
				s.ID, s.StartCursor, end, outcome, s.Verified, s.Rejected)
		}
		fmt.Fprintf(w, "Patterns: %d\n", len(result.Patterns))
		for _, p := range result.Patterns {
			fmt.Fprintf(w, "  %-40s %3d/%-3d %5.1f%%\n",
				p.Pattern, p.Verified, p.Verified+p.Rejected, p.Precision*100)
		}
	})
}
