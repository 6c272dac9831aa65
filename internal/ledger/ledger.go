// Package ledger is the append-only CSV sink for verified annotations.
//
// The file is a log, not a deduplicated store: rows from earlier runs are
// never rewritten, and re-annotating a record after a cursor reset appends
// again. The header row is written once, when the file is empty at open.
package ledger

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/roach88/constructicon/internal/annotation"
)

// Header is the first row of every ledger file.
var Header = []string{"construction_id", "record_id", "trigger", "cause", "effect", "status"}

// CSVLedger appends verified entries to a CSV file.
type CSVLedger struct {
	f    *os.File
	path string
}

// Open opens path for appending, creating it if needed. Existing content is
// never truncated.
func Open(path string) (*CSVLedger, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat ledger: %w", err)
	}

	if info.Size() == 0 {
		if _, err := io.WriteString(f, strings.Join(Header, ",")+"\n"); err != nil {
			f.Close()
			return nil, fmt.Errorf("write ledger header: %w", err)
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, fmt.Errorf("sync ledger header: %w", err)
		}
	}

	return &CSVLedger{f: f, path: path}, nil
}

// Path returns the ledger file location.
func (l *CSVLedger) Path() string {
	return l.path
}

// AppendVerified writes the Verified entries among entries, in order, and
// syncs the file. Other statuses are skipped. It returns the number of rows
// written. Safe to call once per record.
func (l *CSVLedger) AppendVerified(entries []annotation.Entry) (int, error) {
	verified := annotation.Verified(entries)
	if len(verified) == 0 {
		return 0, nil
	}

	var b strings.Builder
	for _, e := range verified {
		writeRow(&b, e)
	}

	if _, err := io.WriteString(l.f, b.String()); err != nil {
		return 0, fmt.Errorf("append ledger rows: %w", err)
	}
	if err := l.f.Sync(); err != nil {
		return 0, fmt.Errorf("sync ledger: %w", err)
	}
	return len(verified), nil
}

// Close closes the underlying file.
func (l *CSVLedger) Close() error {
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// writeRow renders one row. encoding/csv only quotes fields when needed;
// the free-text columns here are always quoted.
func writeRow(b *strings.Builder, e annotation.Entry) {
	b.WriteString(e.ConstructionID)
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(e.RecordID, 10))
	for _, field := range []string{e.Trigger, e.Cause, e.Effect} {
		b.WriteByte(',')
		b.WriteString(quote(field))
	}
	b.WriteByte(',')
	b.WriteString(e.Status.String())
	b.WriteByte('\n')
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
