package store

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

func testFrame(t *testing.T) *timeseries.Frame {
	t.Helper()
	a := timeseries.NewSeries("A", []timeseries.Point{
		{Date: timeseries.Date(2024, time.January, 1), Value: 100},
		{Date: timeseries.Date(2024, time.January, 2), Value: 102},
	})
	b := timeseries.NewSeries("B", []timeseries.Point{
		{Date: timeseries.Date(2024, time.January, 1), Value: 90},
	})
	f := timeseries.Join(timeseries.Outer, a, b)
	require.NoError(t, f.Spread("Spread", "A", "B"))
	return f
}

func TestCSVStore_SaveLoadRoundTrip(t *testing.T) {
	st := NewCSVStore(t.TempDir())

	path, err := st.Save("topic", testFrame(t))
	require.NoError(t, err)
	assert.Equal(t, st.Path("topic"), path)

	loaded, err := st.Load("topic")
	require.NoError(t, err)

	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, []string{"A", "B", "Spread"}, loaded.Columns())
	assert.Equal(t, 10.0, loaded.Value(0, "Spread"))
	assert.True(t, math.IsNaN(loaded.Value(1, "B")), "empty cell loads as a gap")
	assert.True(t, math.IsNaN(loaded.Value(1, "Spread")))
}

func TestCSVStore_DateIndexStrictlyAscending(t *testing.T) {
	st := NewCSVStore(t.TempDir())
	_, err := st.Save("topic", testFrame(t))
	require.NoError(t, err)

	loaded, err := st.Load("topic")
	require.NoError(t, err)

	dates := loaded.Dates()
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i-1].Before(dates[i]), "dates must be strictly ascending, no duplicates")
	}
}

func TestCSVStore_SaveIsIdempotent(t *testing.T) {
	st := NewCSVStore(t.TempDir())

	_, err := st.Save("topic", testFrame(t))
	require.NoError(t, err)
	first, err := os.ReadFile(st.Path("topic"))
	require.NoError(t, err)

	_, err = st.Save("topic", testFrame(t))
	require.NoError(t, err)
	second, err := os.ReadFile(st.Path("topic"))
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical data must produce identical bytes")
}

func TestCSVStore_SaveOverwritesPriorContent(t *testing.T) {
	st := NewCSVStore(t.TempDir())

	_, err := st.Save("topic", testFrame(t))
	require.NoError(t, err)

	smaller := timeseries.Join(timeseries.Outer, timeseries.NewSeries("Only", []timeseries.Point{
		{Date: timeseries.Date(2024, time.February, 1), Value: 1},
	}))
	_, err = st.Save("topic", smaller)
	require.NoError(t, err)

	loaded, err := st.Load("topic")
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, loaded.Columns())
	assert.Equal(t, 1, loaded.Len())
}

func TestCSVStore_NoTempFileResidue(t *testing.T) {
	dir := t.TempDir()
	st := NewCSVStore(dir)

	_, err := st.Save("topic", testFrame(t))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "topic.csv", entries[0].Name())
}

func TestCSVStore_SaveFailureLeavesPreviousFileIntact(t *testing.T) {
	dir := t.TempDir()
	st := NewCSVStore(dir)

	_, err := st.Save("topic", testFrame(t))
	require.NoError(t, err)
	before, err := os.ReadFile(st.Path("topic"))
	require.NoError(t, err)

	// Turn the store directory path into a file so the temp-file creation
	// fails before anything touches the existing data.
	broken := NewCSVStore(filepath.Join(dir, "topic.csv"))
	_, err = broken.Save("other", testFrame(t))
	require.Error(t, err)

	after, readErr := os.ReadFile(st.Path("topic"))
	require.NoError(t, readErr)
	assert.Equal(t, before, after)
}

func TestCSVStore_LoadMissingFile(t *testing.T) {
	st := NewCSVStore(t.TempDir())

	_, err := st.Load("nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = st.Stat("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCSVStore_LoadRejectsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	st := NewCSVStore(dir)

	require.NoError(t, os.WriteFile(st.Path("bad"), []byte("Date,A\nnot-a-date,1\n"), 0o644))
	_, err := st.Load("bad")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bad date"))
}

func TestCSVStore_HeaderFormat(t *testing.T) {
	st := NewCSVStore(t.TempDir())
	_, err := st.Save("topic", testFrame(t))
	require.NoError(t, err)

	raw, err := os.ReadFile(st.Path("topic"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "Date,A,B,Spread", lines[0])
	assert.Equal(t, "2024-01-01,100,90,10", lines[1])
	assert.Equal(t, "2024-01-02,102,,", lines[2])
}
