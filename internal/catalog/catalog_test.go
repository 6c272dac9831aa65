package catalog

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietCatalog() *Catalog {
	return New(WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
}

func TestAddConstruction_Unique(t *testing.T) {
	c := quietCatalog()

	err := c.AddConstruction(Construction{ID: "T999", Degree: DegreeFacilitate, Order: OrderCauseEffect, Template: "Test template", Example: "Test example"})
	require.NoError(t, err)
	assert.Len(t, c.Constructions(), 1)
}

func TestAddConstruction_DuplicateSkipped(t *testing.T) {
	var logs bytes.Buffer
	c := New(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	first := Construction{ID: "T999", Degree: DegreeFacilitate, Template: "first"}
	second := Construction{ID: "T999", Degree: DegreeInhibit, Template: "second"}

	require.NoError(t, c.AddConstruction(first))
	err := c.AddConstruction(second)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))

	var dupErr *DuplicateError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "construction", dupErr.Kind)
	assert.Equal(t, "T999", dupErr.Key)

	// first registration wins, size unchanged
	require.Len(t, c.Constructions(), 1)
	got, ok := c.FindConstruction("T999")
	require.True(t, ok)
	assert.Equal(t, "first", got.Template)
	assert.Equal(t, DegreeFacilitate, got.Degree)

	assert.Contains(t, logs.String(), "construction already exists")
}

func TestAddPattern_DuplicateSkipped(t *testing.T) {
	c := quietCatalog()

	require.NoError(t, c.AddPattern(MustPattern("Test pattern", `test pattern`, "T999")))
	err := c.AddPattern(MustPattern("Test pattern", `something else`, "T001", "T002"))

	assert.True(t, errors.Is(err, ErrDuplicate))
	require.Len(t, c.Patterns(), 1)
	assert.Equal(t, []string{"T999"}, c.Patterns()[0].ConstructionIDs)
}

func TestCatalogIdempotence(t *testing.T) {
	c := quietCatalog()

	for i := 0; i < 5; i++ {
		_ = c.AddConstruction(Construction{ID: "C001", Template: "variant"})
		_ = c.AddPattern(MustPattern("<cause> where <effect>", `\bwhere\b`, "C001"))
	}

	assert.Len(t, c.Constructions(), 1)
	assert.Len(t, c.Patterns(), 1)
}

func TestFindConstruction(t *testing.T) {
	c := quietCatalog()
	ids := []string{"C001", "C002", "M001"}
	for _, id := range ids {
		require.NoError(t, c.AddConstruction(Construction{ID: id}))
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			got, ok := c.FindConstruction(id)
			require.True(t, ok)
			assert.Equal(t, id, got.ID)
		})
	}

	_, ok := c.FindConstruction("Z999")
	assert.False(t, ok)
}

func TestInsertionOrder(t *testing.T) {
	c := quietCatalog()
	for _, id := range []string{"C003", "C001", "C002"} {
		require.NoError(t, c.AddConstruction(Construction{ID: id}))
	}

	var got []string
	for _, con := range c.Constructions() {
		got = append(got, con.ID)
	}
	assert.Equal(t, []string{"C003", "C001", "C002"}, got)
}

func TestConstructionsReturnsCopy(t *testing.T) {
	c := quietCatalog()
	require.NoError(t, c.AddConstruction(Construction{ID: "C001", Template: "original"}))

	list := c.Constructions()
	list[0].Template = "mutated"

	got, _ := c.FindConstruction("C001")
	assert.Equal(t, "original", got.Template)
}

func TestUnresolvedReferences(t *testing.T) {
	c := quietCatalog()
	require.NoError(t, c.AddConstruction(Construction{ID: "C001"}))
	require.NoError(t, c.AddPattern(MustPattern("known", `known`, "C001")))
	require.NoError(t, c.AddPattern(MustPattern("unknown", `unknown`, "C001", "C404")))

	refs := c.UnresolvedReferences()
	require.Len(t, refs, 1)
	assert.Equal(t, Reference{Pattern: "unknown", ConstructionID: "C404"}, refs[0])
}

func TestPrimaryConstructionID(t *testing.T) {
	assert.Equal(t, "C010", MustPattern("multi", `as`, "C010", "C011").PrimaryConstructionID())
	assert.Equal(t, "", MustPattern("none", `as`).PrimaryConstructionID())
}

func TestNewPattern_InvalidRegex(t *testing.T) {
	_, err := NewPattern("broken", `(unclosed`, false, []string{"C001"}, ParseMethodUnknown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestEnumNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"degree facilitate", DegreeFacilitate.String(), "facilitate"},
		{"degree out of range", Degree(42).String(), "unknown"},
		{"order effect_cause", OrderEffectCause.String(), "effect_cause"},
		{"parse method semi", ParseMethodSemiAuto.String(), "SemiAuto"},
		{"parse method out of range", ParseMethod(-1).String(), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestParseParseMethod(t *testing.T) {
	for input, want := range map[string]ParseMethod{
		"full_auto": ParseMethodFullAuto,
		"FullAuto":  ParseMethodFullAuto,
		"semi_auto": ParseMethodSemiAuto,
		"MANUAL":    ParseMethodManual,
	} {
		got, err := ParseParseMethod(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseParseMethod("sometimes")
	assert.Error(t, err)
}
