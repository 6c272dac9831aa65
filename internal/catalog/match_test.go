package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_FirstMatchPerPattern(t *testing.T) {
	c := quietCatalog()
	require.NoError(t, c.AddPattern(MustPattern("<cause> causes <effect>", `\b(cause|causes|caused|causing)\b`, "C146")))

	matches := c.Match("Fatigue caused the error, and the error caused the crash.")

	require.Len(t, matches, 1)
	assert.Equal(t, "caused", matches[0].Trigger)
	assert.Equal(t, 8, matches[0].Start)
	assert.Equal(t, 14, matches[0].End)
	assert.Equal(t, "C146", matches[0].ConstructionID())
}

func TestMatch_CatalogOrderAndOverlap(t *testing.T) {
	c := quietCatalog()
	require.NoError(t, c.AddPattern(MustPattern("<cause> causes <effect>", `\b(cause|causes|caused|causing)\b`, "C146")))
	require.NoError(t, c.AddPattern(MustPattern("the probable cause of <effect> was <cause", `\bthe\s+probable\s+cause\s+of\b`, "M001")))

	text := "The probable cause of this accident was the pilot's failure to maintain airspeed."
	matches := c.Match(text)

	// the generic pattern is listed first and fires on the shorter trigger
	require.Len(t, matches, 2)
	assert.Equal(t, "cause", matches[0].Trigger)
	assert.Equal(t, "C146", matches[0].ConstructionID())
	assert.Equal(t, "The probable cause of", matches[1].Trigger)
	assert.Equal(t, "M001", matches[1].ConstructionID())
}

func TestMatch_CaseInsensitiveByDefault(t *testing.T) {
	c := quietCatalog()
	require.NoError(t, c.AddPattern(MustPattern("<effect> because <cause>", `\bbecause\b`, "C100")))

	matches := c.Match("BECAUSE of the icing, the engine lost power.")
	require.Len(t, matches, 1)
	assert.Equal(t, "BECAUSE", matches[0].Trigger)
}

func TestMatch_CaseSensitive(t *testing.T) {
	c := quietCatalog()
	p, err := NewPattern("upper only", `\bHad\b`, true, []string{"C029"}, ParseMethodUnknown)
	require.NoError(t, err)
	require.NoError(t, c.AddPattern(p))

	assert.Empty(t, c.Match("the pilot had not"))
	assert.Len(t, c.Match("Had the pilot checked"), 1)
}

func TestMatch_NoMatches(t *testing.T) {
	c := quietCatalog()
	require.NoError(t, c.AddPattern(MustPattern("<cause> causes <effect>", `\bcauses\b`, "C146")))

	assert.Empty(t, c.Match("No pattern here."))
	// \bcauses\b does not match the past tense
	assert.Empty(t, c.Match("The storm caused flooding."))
}

func TestMatch_TriggerIsByteSlice(t *testing.T) {
	c := quietCatalog()
	require.NoError(t, c.AddPattern(MustPattern("<effect> amid <cause>", `\bamid\b`, "C002")))

	text := "Operations halted — amid rising winds."
	matches := c.Match(text)
	require.Len(t, matches, 1)
	assert.Equal(t, text[matches[0].Start:matches[0].End], matches[0].Trigger)
}
