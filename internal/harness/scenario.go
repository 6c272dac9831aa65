package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one scripted annotation session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Catalog is an inline catalog document.
	Catalog string `yaml:"catalog"`

	// Records seed the record source, in order.
	Records []ScenarioRecord `yaml:"records"`

	// Cursor is the saved progress the session resumes from.
	Cursor int `yaml:"cursor,omitempty"`

	// Input is everything the operator types, one answer per line.
	Input string `yaml:"input"`

	Expect Expect `yaml:"expect"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ScenarioRecord is a record as written in a scenario file.
type ScenarioRecord struct {
	ID   int64  `yaml:"id"`
	Text string `yaml:"text"`
}

// Expect is the session summary a scenario must produce.
type Expect struct {
	Outcome  string `yaml:"outcome"`
	Cursor   int    `yaml:"cursor"`
	Verified int    `yaml:"verified"`
	Rejected int    `yaml:"rejected"`

	// Error, when set, is a substring of the error the session must stop with.
	Error string `yaml:"error,omitempty"`
}

// Assertion checks the ledger, the journal or the transcript after a run.
type Assertion struct {
	Type string `yaml:"type"`

	// Row holds ledger column values (ledger_row). Only the columns given
	// are compared.
	Row map[string]string `yaml:"row,omitempty"`

	// Status filters journal decisions (journal_count).
	Status string `yaml:"status,omitempty"`

	// Count is the expected number of rows or decisions.
	Count int `yaml:"count,omitempty"`

	// Text is the expected transcript fragment (transcript_contains).
	Text string `yaml:"text,omitempty"`

	// Texts are the expected fragments in order (transcript_order).
	Texts []string `yaml:"texts,omitempty"`
}

// Assertion type constants.
const (
	AssertLedgerRow          = "ledger_row"
	AssertLedgerCount        = "ledger_count"
	AssertJournalCount       = "journal_count"
	AssertTranscriptContains = "transcript_contains"
	AssertTranscriptOrder    = "transcript_order"
)

// ledgerColumns are the keys a ledger_row assertion may name.
var ledgerColumns = map[string]bool{
	"construction_id": true,
	"record_id":       true,
	"trigger":         true,
	"cause":           true,
	"effect":          true,
	"status":          true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if s.Cursor < 0 {
		return fmt.Errorf("cursor must not be negative")
	}
	if s.Expect.Outcome == "" {
		return fmt.Errorf("expect.outcome is required")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertLedgerRow:
		if len(a.Row) == 0 {
			return fmt.Errorf("assertions[%d]: ledger_row requires row", index)
		}
		for col := range a.Row {
			if !ledgerColumns[col] {
				return fmt.Errorf("assertions[%d]: unknown ledger column %q", index, col)
			}
		}
	case AssertLedgerCount, AssertJournalCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must not be negative", index)
		}
	case AssertTranscriptContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: transcript_contains requires text", index)
		}
	case AssertTranscriptOrder:
		if len(a.Texts) < 2 {
			return fmt.Errorf("assertions[%d]: transcript_order requires at least 2 texts", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}
