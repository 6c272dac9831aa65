package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"

	"github.com/roach88/constructicon/internal/annotation"
)

// Row is one parsed ledger data row.
type Row struct {
	ConstructionID string `json:"construction_id"`
	RecordID       int64  `json:"record_id"`
	Trigger        string `json:"trigger"`
	Cause          string `json:"cause"`
	Effect         string `json:"effect"`
	Status         string `json:"status"`
}

// Read parses the ledger at path. A missing file reads as no rows.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads ledger rows from r, skipping header rows.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	var rows []Row
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		if slices.Equal(rec, Header) {
			continue
		}

		id, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("read ledger: line %d: record id %q: %w", line, rec[1], err)
		}
		rows = append(rows, Row{
			ConstructionID: rec[0],
			RecordID:       id,
			Trigger:        rec[2],
			Cause:          rec[3],
			Effect:         rec[4],
			Status:         rec[5],
		})
	}
	return rows, nil
}

// ConstructionCount is the number of rows attributed to one construction.
type ConstructionCount struct {
	ConstructionID string `json:"construction_id"`
	Rows           int    `json:"rows"`
}

// Summary aggregates a ledger.
type Summary struct {
	Rows    int `json:"rows"`
	Records int `json:"records"`
	// Pending counts manual rows still awaiting a construction id.
	Pending        int                 `json:"pending"`
	ByConstruction []ConstructionCount `json:"by_construction"`
}

// Summarize counts rows per construction, most frequent first, ties by id.
func Summarize(rows []Row) Summary {
	counts := make(map[string]int)
	records := make(map[int64]struct{})
	s := Summary{Rows: len(rows)}

	for _, r := range rows {
		counts[r.ConstructionID]++
		records[r.RecordID] = struct{}{}
		if r.ConstructionID == annotation.PendingConstructionID {
			s.Pending++
		}
	}
	s.Records = len(records)

	s.ByConstruction = make([]ConstructionCount, 0, len(counts))
	for id, n := range counts {
		s.ByConstruction = append(s.ByConstruction, ConstructionCount{ConstructionID: id, Rows: n})
	}
	sort.Slice(s.ByConstruction, func(i, j int) bool {
		a, b := s.ByConstruction[i], s.ByConstruction[j]
		if a.Rows != b.Rows {
			return a.Rows > b.Rows
		}
		return a.ConstructionID < b.ConstructionID
	})
	return s
}
