// Package annotation defines the causal annotation produced for a record.
package annotation

import (
	"fmt"
	"strings"

	"github.com/roach88/constructicon/internal/catalog"
)

// PendingConstructionID marks a manual entry that has not been assigned a
// catalog construction yet.
const PendingConstructionID = "TK"

// Status is the verification outcome of an entry.
type Status int

const (
	StatusUnknown Status = iota
	StatusCandidate
	StatusVerified
	StatusRejected
)

var statusNames = map[Status]string{
	StatusUnknown:   "Unknown",
	StatusCandidate: "Candidate",
	StatusVerified:  "Verified",
	StatusRejected:  "Rejected",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus accepts the names produced by String.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, fmt.Errorf("unknown status %q", s)
}

// Entry is one causal annotation of one record. Entries are never mutated
// after creation.
type Entry struct {
	ConstructionID string              `json:"construction_id"`
	RecordID       int64               `json:"record_id"`
	Trigger        string              `json:"trigger"`
	Cause          string              `json:"cause"`
	Effect         string              `json:"effect"`
	Status         Status              `json:"status"`
	ParseMethod    catalog.ParseMethod `json:"parse_method"`
	// Pattern is the description of the pattern that surfaced the entry.
	// Empty for manual entries.
	Pattern string `json:"pattern,omitempty"`
}

// Manual reports whether the entry was entered by the operator rather than
// surfaced by a pattern.
func (e Entry) Manual() bool {
	return e.Pattern == ""
}

// Verified filters entries down to those with StatusVerified, keeping order.
func Verified(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Status == StatusVerified {
			out = append(out, e)
		}
	}
	return out
}

// Field names a span the operator is asked for.
type Field int

const (
	FieldTrigger Field = iota
	FieldCause
	FieldEffect
)

func (f Field) String() string {
	switch f {
	case FieldTrigger:
		return "trigger"
	case FieldCause:
		return "cause"
	case FieldEffect:
		return "effect"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Span is a half-open byte range into a record text.
type Span struct {
	Start int
	End   int
}

// Locate finds the first occurrence of s in text. Operator spans are free-form
// and need not occur in the text at all; ok is false then.
func Locate(text, s string) (Span, bool) {
	if s == "" {
		return Span{}, false
	}
	i := strings.Index(text, s)
	if i < 0 {
		return Span{}, false
	}
	return Span{Start: i, End: i + len(s)}, true
}
