package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/constructicon/internal/catalog"
	"github.com/roach88/constructicon/internal/record"
)

// Default file locations, relative to the working directory.
const (
	DefaultRecordsPath  = "cleaned_data.json"
	DefaultLedgerPath   = "annotations.csv"
	DefaultProgressPath = "progress.txt"
)

// LoadError represents an error that occurred while loading command inputs.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// CatalogSource holds a loaded catalog and where it came from.
type CatalogSource struct {
	Catalog *catalog.Catalog
	Stats   catalog.LoadStats
	Origin  string // file path, or "embedded"
}

// loadCatalog loads path, or the embedded reference catalog if path is empty.
func loadCatalog(path string, logger *slog.Logger) (*CatalogSource, error) {
	if path == "" {
		c, stats, err := catalog.Default(catalog.WithLogger(logger))
		if err != nil {
			return nil, &LoadError{Code: ErrCodeCatalog, Message: "embedded catalog invalid", Err: err}
		}
		logger.Debug("catalog loaded", "origin", "embedded", "constructions", stats.Constructions, "patterns", stats.Patterns)
		return &CatalogSource{Catalog: c, Stats: stats, Origin: "embedded"}, nil
	}

	c, stats, err := catalog.LoadFile(path, catalog.WithLogger(logger))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog file not found: %s", path), Err: err}
		}
		return nil, &LoadError{Code: ErrCodeCatalog, Message: fmt.Sprintf("invalid catalog %s", path), Err: err}
	}
	logger.Debug("catalog loaded", "origin", path, "constructions", stats.Constructions, "patterns", stats.Patterns)
	return &CatalogSource{Catalog: c, Stats: stats, Origin: path}, nil
}

// RecordFlags are the record-source flags shared by commands.
type RecordFlags struct {
	Path      string
	IDField   string
	TextField string
}

func (f RecordFlags) options() record.SourceOptions {
	return record.SourceOptions{IDField: f.IDField, TextField: f.TextField}
}

// loadRecords loads the record source strictly, for reporting commands.
func loadRecords(f RecordFlags) (*record.Store, error) {
	store, err := record.Load(f.Path, f.options())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("record source not found: %s", f.Path), Err: err}
		}
		return nil, &LoadError{Code: ErrCodeRecords, Message: fmt.Sprintf("cannot load records from %s", f.Path), Err: err}
	}
	return store, nil
}

// failLoad reports a load error through the formatter.
func failLoad(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message, loadErr.Err)
	}
	return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
