package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/constructicon/internal/annotation"
	"github.com/roach88/constructicon/internal/catalog"
)

func verified(id string, rec int64, trigger, cause, effect string) annotation.Entry {
	return annotation.Entry{
		ConstructionID: id,
		RecordID:       rec,
		Trigger:        trigger,
		Cause:          cause,
		Effect:         effect,
		Status:         annotation.StatusVerified,
		ParseMethod:    catalog.ParseMethodUnknown,
	}
}

func rejected(id string, rec int64, trigger string) annotation.Entry {
	return annotation.Entry{
		ConstructionID: id,
		RecordID:       rec,
		Trigger:        trigger,
		Status:         annotation.StatusRejected,
	}
}

func ledgerPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "annotations.csv")
}

func TestAppendVerified_Golden(t *testing.T) {
	path := ledgerPath(t)
	l, err := Open(path)
	require.NoError(t, err)

	n, err := l.AppendVerified([]annotation.Entry{
		verified("C146", 1, "caused", "The storm", "flooding"),
		rejected("C100", 1, "because"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = l.AppendVerified([]annotation.Entry{
		verified(annotation.PendingConstructionID, 193383, "resulted in", `the "gear up" warning`, "a hard landing"),
		verified("M001", 193383, "The probable cause of", "fuel exhaustion", "this accident"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "ledger_two_commits", data)
}

func TestOpen_HeaderOnlyWhenEmpty(t *testing.T) {
	path := ledgerPath(t)

	for i := 0; i < 3; i++ {
		l, err := Open(path)
		require.NoError(t, err)
		_, err = l.AppendVerified([]annotation.Entry{verified("C146", int64(i), "caused", "a", "b")})
		require.NoError(t, err)
		require.NoError(t, l.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "construction_id,record_id,trigger,cause,effect,status", lines[0])
	assert.Equal(t, 1, strings.Count(string(data), "construction_id"))
	assert.Equal(t, `C146,2,"caused","a","b",Verified`, lines[3])
}

func TestOpen_NeverTruncates(t *testing.T) {
	path := ledgerPath(t)
	existing := "construction_id,record_id,trigger,cause,effect,status\nC001,9,\"where\",\"x\",\"y\",Verified\n"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0644))

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, existing, string(data))
}

func TestAppendVerified_MonotonicAcrossCommits(t *testing.T) {
	path := ledgerPath(t)
	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	commits := [][]annotation.Entry{
		{verified("C146", 1, "caused", "The storm", "flooding"), rejected("C146", 1, "cause")},
		{},
		{rejected("C002", 3, "amid")},
		{verified("C002", 4, "amid", "winds", "halt"), verified("TK", 4, "so", "x", "y"), verified("C009", 4, "as", "p", "q")},
	}

	total := 0
	for _, c := range commits {
		n, err := l.AppendVerified(c)
		require.NoError(t, err)
		total += n
	}
	assert.Equal(t, 4, total)

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.Equal(t, "Verified", r.Status)
	}
	assert.Equal(t, []string{"C146", "C002", "TK", "C009"}, []string{
		rows[0].ConstructionID, rows[1].ConstructionID, rows[2].ConstructionID, rows[3].ConstructionID,
	})
}

func TestAppendVerified_NothingVerifiedWritesNothing(t *testing.T) {
	path := ledgerPath(t)
	l, err := Open(path)
	require.NoError(t, err)

	n, err := l.AppendVerified([]annotation.Entry{rejected("C146", 1, "caused")})
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "construction_id,record_id,trigger,cause,effect,status\n", string(data))
}

func TestClose_Idempotent(t *testing.T) {
	l, err := Open(ledgerPath(t))
	require.NoError(t, err)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}

func TestOpen_UnwritablePath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "annotations.csv"))
	assert.Error(t, err)
}
