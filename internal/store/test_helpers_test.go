package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/constructicon/internal/annotation"
	"github.com/roach88/constructicon/internal/catalog"
)

// createTestStore opens a fresh journal in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// beginTestSession inserts a session starting at cursor 0 over 10 records.
func beginTestSession(t *testing.T, s *Store, id string) {
	t.Helper()
	err := s.BeginSession(context.Background(), SessionStart{ID: id, RecordCount: 10, PatternSize: 92})
	if err != nil {
		t.Fatalf("BeginSession(%q) failed: %v", id, err)
	}
}

func verifiedEntry(recordID int64, pattern, trigger string) annotation.Entry {
	return annotation.Entry{
		ConstructionID: "C146",
		RecordID:       recordID,
		Trigger:        trigger,
		Cause:          "The storm",
		Effect:         "flooding",
		Status:         annotation.StatusVerified,
		Pattern:        pattern,
	}
}

func rejectedEntry(recordID int64, pattern, trigger string) annotation.Entry {
	return annotation.Entry{
		ConstructionID: "C146",
		RecordID:       recordID,
		Trigger:        trigger,
		Status:         annotation.StatusRejected,
		Pattern:        pattern,
	}
}

func manualEntry(recordID int64, trigger string) annotation.Entry {
	return annotation.Entry{
		ConstructionID: annotation.PendingConstructionID,
		RecordID:       recordID,
		Trigger:        trigger,
		Cause:          "icing",
		Effect:         "power loss",
		Status:         annotation.StatusVerified,
		ParseMethod:    catalog.ParseMethodSemiAuto,
	}
}
