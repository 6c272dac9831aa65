package progress

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T) (*FileTracker, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	path := filepath.Join(t.TempDir(), "progress.txt")
	return NewFileTracker(path, WithLogger(slog.New(slog.NewTextHandler(&logs, nil)))), &logs
}

func TestLoad_MissingFileIsZero(t *testing.T) {
	tracker, logs := newTracker(t)

	assert.Equal(t, 0, tracker.Load())
	assert.Empty(t, logs.String())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	tracker, _ := newTracker(t)

	require.NoError(t, tracker.Save(3))
	assert.Equal(t, 3, tracker.Load())

	require.NoError(t, tracker.Save(7))
	assert.Equal(t, 7, tracker.Load())

	data, err := os.ReadFile(tracker.Path())
	require.NoError(t, err)
	assert.Equal(t, "7", string(data))
}

func TestLoad_CorruptContentIsZero(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"text", "seven"},
		{"negative", "-4"},
		{"float", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, logs := newTracker(t)
			require.NoError(t, os.WriteFile(tracker.Path(), []byte(tt.content), 0644))

			assert.Equal(t, 0, tracker.Load())
			assert.Contains(t, logs.String(), "progress file corrupt")
		})
	}
}

func TestLoad_ToleratesTrailingNewline(t *testing.T) {
	tracker, _ := newTracker(t)
	require.NoError(t, os.WriteFile(tracker.Path(), []byte("12\n"), 0644))

	assert.Equal(t, 12, tracker.Load())
}

func TestSave_RejectsNegative(t *testing.T) {
	tracker, _ := newTracker(t)

	assert.Error(t, tracker.Save(-1))
	assert.Equal(t, 0, tracker.Load())
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	tracker, _ := newTracker(t)
	require.NoError(t, tracker.Save(1))
	require.NoError(t, tracker.Save(2))

	entries, err := os.ReadDir(filepath.Dir(tracker.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "progress.txt", entries[0].Name())
}

func TestSave_UnwritableDirectory(t *testing.T) {
	tracker := NewFileTracker(filepath.Join(t.TempDir(), "missing", "progress.txt"))

	assert.Error(t, tracker.Save(1))
}

func TestReset(t *testing.T) {
	tracker, _ := newTracker(t)
	require.NoError(t, tracker.Save(9))

	require.NoError(t, Reset(tracker.Path(), 0))
	assert.Equal(t, 0, tracker.Load())
}
