package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"partsclean/internal"
)

func strp(v string) *string { return &v }

func TestRunRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	require.NoError(t, err)
	defer db.Close()

	first, err := db.InsertRun("trace-1", "file", "in.csv", "out.csv", map[string]float64{"totalMs": 12}, map[string]int{"rows": 2})
	require.NoError(t, err)
	second, err := db.InsertRun("trace-2", "batch", "chunk_*.csv", "output.csv", nil, nil)
	require.NoError(t, err)
	require.Greater(t, second, first)

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, second, runs[0].ID)
	require.Equal(t, "batch", runs[0].Mode)
	require.Equal(t, "trace-1", runs[1].TraceID)
	require.Equal(t, 2, runs[1].Counts["rows"])
	require.Equal(t, 12.0, runs[1].Timings["totalMs"])
	require.NotEmpty(t, runs[1].CreatedAt)

	limited, err := db.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestRowResultsRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	runID, err := db.InsertRun("trace", "file", "in.csv", "out.csv", nil, nil)
	require.NoError(t, err)

	rows := []internal.RowResultRecord{
		{SourceFile: "in.csv", RowNo: 1, RawCell: strp("['Intel Pentium B940 Intel HM65']"), Processors: []string{"Intel Pentium B940"}, Chipsets: []string{"Intel HM65"}},
		{SourceFile: "in.csv", RowNo: 2},
	}
	require.NoError(t, db.InsertRowResults(runID, rows))

	got, err := db.GetRowResults(runID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, runID, got[0].RunID)
	require.Equal(t, "['Intel Pentium B940 Intel HM65']", *got[0].RawCell)
	require.Equal(t, []string{"Intel Pentium B940"}, got[0].Processors)
	require.Equal(t, []string{"Intel HM65"}, got[0].Chipsets)
	require.Nil(t, got[1].RawCell)
	require.Empty(t, got[1].Processors)
	require.Empty(t, got[1].Chipsets)

	// Row numbers are unique per run and file.
	require.Error(t, db.InsertRowResults(runID, rows[:1]))

	other, err := db.GetRowResults(runID + 1)
	require.NoError(t, err)
	require.Empty(t, other)
}
