package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Names(t *testing.T) {
	assert.Equal(t, "Verified", StatusVerified.String())
	assert.Equal(t, "Rejected", StatusRejected.String())
	assert.Equal(t, "Candidate", StatusCandidate.String())
	assert.Equal(t, "Unknown", StatusUnknown.String())

	s, err := ParseStatus("Rejected")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, s)

	_, err = ParseStatus("verified")
	assert.Error(t, err)
}

func TestVerified_KeepsOrder(t *testing.T) {
	entries := []Entry{
		{ConstructionID: "C146", Status: StatusVerified, Trigger: "caused"},
		{ConstructionID: "C100", Status: StatusRejected, Trigger: "because"},
		{ConstructionID: PendingConstructionID, Status: StatusVerified, Trigger: "led to"},
	}

	got := Verified(entries)
	require.Len(t, got, 2)
	assert.Equal(t, "caused", got[0].Trigger)
	assert.Equal(t, "led to", got[1].Trigger)
	assert.Empty(t, Verified(nil))
}

func TestEntry_Manual(t *testing.T) {
	assert.True(t, Entry{ConstructionID: PendingConstructionID}.Manual())
	assert.False(t, Entry{ConstructionID: "C146", Pattern: "<cause> causes <effect>"}.Manual())
}

func TestLocate(t *testing.T) {
	text := "The storm caused flooding."

	span, ok := Locate(text, "flooding")
	require.True(t, ok)
	assert.Equal(t, Span{Start: 17, End: 25}, span)

	_, ok = Locate(text, "drought")
	assert.False(t, ok)
	_, ok = Locate(text, "")
	assert.False(t, ok)
}
