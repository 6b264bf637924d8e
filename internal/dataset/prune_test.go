package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "epitrend/internal/errors"
	"epitrend/internal/region"
)

func TestPruneNational(t *testing.T) {
	csv := nationalFeedCSV(
		nationalRow("2020-09-01T17:00:00", "2", "1", "5", "100", ""),
		nationalRow("2020-09-02T17:00:00", "3", "10", "5", "150", ""),
	)
	feed, err := ParseFeed(strings.NewReader(csv))
	require.NoError(t, err)

	ds, err := Prune(feed, nil)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, 100.0, ds.Rows[0].Tests)
	assert.Equal(t, 10.0, ds.Rows[1].NewPositives)
}

func TestPruneRegionFilter(t *testing.T) {
	csv := regionalFeedCSV(
		regionalRow("2020-09-01T17:00:00", 3, "Lombardia", "2", "1", "5", "100", ""),
		regionalRow("2020-09-01T17:00:00", 5, "Veneto", "4", "2", "7", "90", ""),
		regionalRow("2020-09-02T17:00:00", 3, "Lombardia", "3", "4", "6", "140", ""),
		regionalRow("2020-09-02T17:00:00", 5, "Veneto", "4", "1", "7", "120", ""),
	)
	feed, err := ParseFeed(strings.NewReader(csv))
	require.NoError(t, err)

	ds, err := Prune(feed, &region.Lombardia)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len(), "only Lombardia rows survive, renumbered from zero")
	assert.Equal(t, 100.0, ds.Rows[0].Tests)
	assert.Equal(t, 140.0, ds.Rows[1].Tests)
}

func TestPruneRegionWithNoRows(t *testing.T) {
	csv := regionalFeedCSV(
		regionalRow("2020-09-01T17:00:00", 3, "Lombardia", "2", "1", "5", "100", ""),
	)
	feed, err := ParseFeed(strings.NewReader(csv))
	require.NoError(t, err)

	ds, err := Prune(feed, &region.Molise)
	require.NoError(t, err, "a region matching zero rows is not an error")
	assert.Equal(t, 0, ds.Len())
}

func TestPruneSchemaDrift(t *testing.T) {
	// The note column disappeared from the header: upstream schema drift.
	header := strings.Replace(nationalHeader, ",note", "", 1)
	row := nationalRow("2020-09-01T17:00:00", "2", "1", "5", "100", "")
	row = row[:strings.LastIndex(row, ",")]
	feed, err := ParseFeed(strings.NewReader(header + "\n" + row + "\n"))
	require.NoError(t, err)

	_, err = Prune(feed, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchema(err), "want schema error, got %v", err)
}

func TestPruneRegionalColumnsRequired(t *testing.T) {
	// Region selector against a national feed: the region/geo columns to
	// drop are absent, which is a contract violation.
	csv := nationalFeedCSV(nationalRow("2020-09-01T17:00:00", "2", "1", "5", "100", ""))
	feed, err := ParseFeed(strings.NewReader(csv))
	require.NoError(t, err)

	_, err = Prune(feed, &region.Lazio)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchema(err))
}

func TestPruneByCode(t *testing.T) {
	csv := regionalFeedCSV(
		regionalRow("2020-09-01T17:00:00", 5, "Veneto", "4", "2", "7", "90", ""),
	)
	feed, err := ParseFeed(strings.NewReader(csv))
	require.NoError(t, err)

	ds, err := PruneByCode(feed, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	_, err = PruneByCode(feed, 99)
	assert.Error(t, err, "unknown region codes are rejected")
}

func TestPruneDoesNotMutateFeed(t *testing.T) {
	csv := regionalFeedCSV(
		regionalRow("2020-09-01T17:00:00", 3, "Lombardia", "2", "1", "5", "100", ""),
		regionalRow("2020-09-01T17:00:00", 5, "Veneto", "4", "2", "7", "90", ""),
	)
	feed, err := ParseFeed(strings.NewReader(csv))
	require.NoError(t, err)

	_, err = Prune(feed, &region.Lombardia)
	require.NoError(t, err)

	assert.Len(t, feed.Rows, 2, "pruning produces a new table; the feed keeps all rows")
}
