// Package record provides the ordered set of narrative records to annotate.
//
// Records are loaded once at process start and are read-only afterwards.
// Their position in the Store is the canonical processing sequence; the
// progress cursor is an index into it.
package record

// Record is one narrative to annotate. Identity is ID.
type Record struct {
	ID   int64  `json:"record_id"`
	Text string `json:"text"`
}

// Store is an ordered, read-only collection of records.
type Store struct {
	records []Record
}

// NewStore builds a store holding records in the given order.
func NewStore(records ...Record) *Store {
	return &Store{records: append([]Record(nil), records...)}
}

// List returns the records in processing order. The slice is a copy.
func (s *Store) List() []Record {
	return append([]Record(nil), s.records...)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// At returns the record at sequence index i.
func (s *Store) At(i int) (Record, bool) {
	if i < 0 || i >= len(s.records) {
		return Record{}, false
	}
	return s.records[i], true
}

// Empty reports whether there is nothing to annotate.
func (s *Store) Empty() bool {
	return len(s.records) == 0
}
