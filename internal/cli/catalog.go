package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/constructicon/internal/catalog"
)

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and check construction catalogs",
	}

	cmd.AddCommand(newCatalogListCommand(rootOpts))
	cmd.AddCommand(newCatalogCheckCommand(rootOpts))

	return cmd
}

// CatalogListOptions holds flags for catalog list.
type CatalogListOptions struct {
	*RootOptions
	Catalog string
	Kind    string
}

func newCatalogListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List constructions or patterns",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "catalog YAML file (default: embedded reference catalog)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "constructions", "what to list (constructions|patterns)")

	return cmd
}

func runCatalogList(opts *CatalogListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	src, err := loadCatalog(opts.Catalog, logger)
	if err != nil {
		return failLoad(formatter, err)
	}

	switch opts.Kind {
	case "constructions":
		cons := src.Catalog.Constructions()
		return formatter.Render(cons, func(w io.Writer) {
			for _, c := range cons {
				fmt.Fprintf(w, "%-6s %-10s %-12s %s\n", c.ID, c.Degree, c.Order, c.Template)
			}
		})
	case "patterns":
		pats := src.Catalog.Patterns()
		return formatter.Render(pats, func(w io.Writer) {
			for _, p := range pats {
				fmt.Fprintf(w, "%-40s %-20s %s\n", p.Description, strings.Join(p.ConstructionIDs, ","), p.Expr())
			}
		})
	default:
		return formatter.Fail(ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("invalid kind %q: must be constructions or patterns", opts.Kind), nil)
	}
}

// CatalogCheckResult reports the health of a catalog.
type CatalogCheckResult struct {
	Source        string              `json:"source"`
	Valid         bool                `json:"valid"`
	Error         string              `json:"error,omitempty"`
	Constructions int                 `json:"constructions"`
	Patterns      int                 `json:"patterns"`
	Duplicates    int                 `json:"duplicates"`
	Unresolved    []catalog.Reference `json:"unresolved,omitempty"`
}

func newCatalogCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [catalog.yaml]",
		Short: "Validate a catalog file",
		Long: `Validate a catalog against the CUE schema, compile every pattern, and
report duplicate keys and pattern references to constructions that do not
exist. Without an argument the embedded reference catalog is checked.

Duplicates and unresolved references are warnings; schema and regex errors
fail the check.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runCatalogCheck(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runCatalogCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := newLogger(opts, cmd.ErrOrStderr())

	result := CatalogCheckResult{Source: path}
	if path == "" {
		result.Source = "embedded"
	}

	src, err := loadCatalog(path, logger)
	if err != nil {
		var loadErr *LoadError
		if !errors.As(err, &loadErr) || loadErr.Code == ErrCodeNotFound || loadErr.Err == nil {
			return failLoad(formatter, err)
		}
		result.Error = loadErr.Err.Error()
		if err := formatter.Render(result, func(w io.Writer) {
			fmt.Fprintf(w, "✗ %s: invalid\n", result.Source)
			fmt.Fprintf(w, "  %s\n", result.Error)
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("catalog %s is invalid", result.Source))
	}

	result.Valid = true
	result.Constructions = src.Stats.Constructions
	result.Patterns = src.Stats.Patterns
	result.Duplicates = src.Stats.Duplicates
	result.Unresolved = src.Catalog.UnresolvedReferences()

	return formatter.Render(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %s: %d constructions, %d patterns\n", result.Source, result.Constructions, result.Patterns)
		if result.Duplicates > 0 {
			fmt.Fprintf(w, "  warning: %d duplicate entries skipped\n", result.Duplicates)
		}
		for _, ref := range result.Unresolved {
			fmt.Fprintf(w, "  warning: pattern %q names unknown construction %s\n", ref.Pattern, ref.ConstructionID)
		}
	})
}
