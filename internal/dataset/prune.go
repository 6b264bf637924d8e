package dataset

import (
	"fmt"

	"epitrend/internal/errors"
	"epitrend/internal/region"
)

// Columns dropped from every feed before derivation: unused by any
// downstream metric. A missing entry means the upstream schema drifted and
// is a hard contract violation.
var droppedColumns = []string{
	colState,
	colHospitalized,
	colTotalHospitalized,
	colHomeIsolation,
	colTotalPositive,
	colPositiveChange,
	colRecovered,
	colSuspectCases,
	colScreeningCases,
	colTotalCases,
	colNotes,
}

// Additional columns dropped when filtering to a single region; they are
// redundant once every remaining row belongs to that region.
var droppedRegionalColumns = []string{
	colRegionCode,
	colRegionName,
	colLatitude,
	colLongitude,
}

// Columns the derivation reads. The validated test count is deliberately
// absent: early feed revisions did not carry it and derivation falls back to
// the raw swab count.
var requiredColumns = []string{
	colDate,
	colNewPositives,
	colICU,
	colDeaths,
	colTests,
}

// Prune removes the columns unused by analysis and, when reg is non-nil,
// keeps only that region's rows before dropping the region/geo metadata
// columns. Row numbering in the result is contiguous starting at zero.
//
// A region code matching zero rows yields an empty dataset, not an error;
// derivation tolerates empty input.
func Prune(feed *Feed, reg *region.Region) (*Dataset, error) {
	for _, col := range droppedColumns {
		if !feed.HasColumn(col) {
			return nil, errors.NewSchemaError(col)
		}
	}
	if reg != nil {
		for _, col := range droppedRegionalColumns {
			if !feed.HasColumn(col) {
				return nil, errors.NewSchemaError(col)
			}
		}
	}
	for _, col := range requiredColumns {
		if !feed.HasColumn(col) {
			return nil, errors.NewSchemaError(col)
		}
	}

	ds := &Dataset{Rows: make([]Row, 0, len(feed.Rows))}
	for _, rec := range feed.Rows {
		if reg != nil && rec.RegionCode != reg.Code {
			continue
		}
		ds.Rows = append(ds.Rows, Row{
			Date:           rec.Date,
			NewPositives:   rec.NewPositives,
			ICU:            rec.ICU,
			Deaths:         rec.Deaths,
			Tests:          rec.Tests,
			ValidatedTests: rec.ValidatedTests,
		})
	}
	return ds, nil
}

// PruneByCode is Prune with a bare upstream region code as the selector.
func PruneByCode(feed *Feed, code int) (*Dataset, error) {
	reg, err := region.FromCode(code)
	if err != nil {
		return nil, fmt.Errorf("resolve region selector: %w", err)
	}
	return Prune(feed, &reg)
}
