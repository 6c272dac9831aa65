package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: "smallest valid scenario"
catalog: |
  constructions: []
  patterns: []
records:
  - id: 1
    text: "Nothing to see."
input: |
  n
  y
expect:
  outcome: completed
  cursor: 1
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, []ScenarioRecord{{ID: 1, Text: "Nothing to see."}}, s.Records)
	assert.Equal(t, "n\ny\n", s.Input)
	assert.Equal(t, Expect{Outcome: "completed", Cursor: 1}, s.Expect)
	assert.Empty(t, s.Assertions)
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "assertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "missing_name",
			doc:     "description: d\ncatalog: c\nexpect: {outcome: completed}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing_description",
			doc:     "name: n\ncatalog: c\nexpect: {outcome: completed}\n",
			wantErr: "description is required",
		},
		{
			name:    "missing_catalog",
			doc:     "name: n\ndescription: d\nexpect: {outcome: completed}\n",
			wantErr: "catalog is required",
		},
		{
			name:    "negative_cursor",
			doc:     "name: n\ndescription: d\ncatalog: c\ncursor: -1\nexpect: {outcome: completed}\n",
			wantErr: "cursor must not be negative",
		},
		{
			name:    "missing_outcome",
			doc:     "name: n\ndescription: d\ncatalog: c\n",
			wantErr: "expect.outcome is required",
		},
		{
			name:    "assertion_without_type",
			doc:     "name: n\ndescription: d\ncatalog: c\nexpect: {outcome: completed}\nassertions:\n  - count: 1\n",
			wantErr: "assertions[0]: type is required",
		},
		{
			name:    "unknown_assertion",
			doc:     "name: n\ndescription: d\ncatalog: c\nexpect: {outcome: completed}\nassertions:\n  - type: final_state\n",
			wantErr: `unknown type "final_state"`,
		},
		{
			name:    "unknown_ledger_column",
			doc:     "name: n\ndescription: d\ncatalog: c\nexpect: {outcome: completed}\nassertions:\n  - type: ledger_row\n    row: {pattern: x}\n",
			wantErr: `unknown ledger column "pattern"`,
		},
		{
			name:    "order_needs_two",
			doc:     "name: n\ndescription: d\ncatalog: c\nexpect: {outcome: completed}\nassertions:\n  - type: transcript_order\n    texts: [a]\n",
			wantErr: "at least 2 texts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
