package dataset

import (
	"fmt"
	"math"
	"time"
)

// Upstream feed column names. These are the external contract of the feed
// and must match the header row byte for byte.
const (
	colDate              = "data"
	colState             = "stato"
	colHospitalized      = "ricoverati_con_sintomi"
	colICU               = "terapia_intensiva"
	colTotalHospitalized = "totale_ospedalizzati"
	colHomeIsolation     = "isolamento_domiciliare"
	colTotalPositive     = "totale_positivi"
	colPositiveChange    = "variazione_totale_positivi"
	colNewPositives      = "nuovi_positivi"
	colRecovered         = "dimessi_guariti"
	colDeaths            = "deceduti"
	colSuspectCases      = "casi_da_sospetto_diagnostico"
	colScreeningCases    = "casi_da_screening"
	colTotalCases        = "totale_casi"
	colTests             = "tamponi"
	colValidatedTests    = "casi_testati"
	colNotes             = "note"
	colRegionCode        = "codice_regione"
	colRegionName        = "denominazione_regione"
	colLatitude          = "lat"
	colLongitude         = "long"
)

// Record is one ingested feed row. Cumulative counters stay cumulative here;
// deltas are computed during derivation. Numeric fields the feed leaves
// empty ingest as NaN.
type Record struct {
	Date           time.Time
	RegionCode     int
	RegionName     string
	NewPositives   float64
	ICU            float64
	Deaths         float64 // cumulative
	Tests          float64 // cumulative raw swab count
	ValidatedTests float64 // cumulative validated count, NaN before its introduction
}

// Feed is an ingested table: all feed rows with the date column normalised
// to a calendar date, plus the original header for schema checks.
type Feed struct {
	Columns  []string
	Rows     []Record
	Regional bool
}

// HasColumn reports whether the feed header carries the named column.
func (f *Feed) HasColumn(name string) bool {
	for _, c := range f.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Row is one pruned table row: only the fields the metric derivation reads.
type Row struct {
	Date           time.Time
	NewPositives   float64
	ICU            float64
	Deaths         float64
	Tests          float64
	ValidatedTests float64
}

// Dataset is a pruned table with contiguous zero-based row indices.
type Dataset struct {
	Rows []Row
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Point is one derived table row. All deltas relate the row's date to the
// previous calendar day in the source feed.
type Point struct {
	Date         time.Time
	NewPositives int64
	NewTests     int64
	Ratio        float64 // positivity percentage, 2-decimal rounding
	ICU          int64
	ICUDelta     int64
	DeathDelta   int64
}

// Series is a derived table. The first day of the pruned input is never
// present: it has no predecessor to diff against.
type Series struct {
	Points []Point
}

// Len returns the number of derived rows.
func (s *Series) Len() int {
	return len(s.Points)
}

// Headers returns the canonical report labels in fixed column order.
func (s *Series) Headers() []string {
	return []string{"DATE", "POSITIVE", "TESTED", "RATIO", "ICU", "ICU DELTA", "DEATHS"}
}

// Records renders the series as string cells in header order, ready for
// tabular display or CSV export.
func (s *Series) Records() [][]string {
	out := make([][]string, 0, len(s.Points))
	for _, p := range s.Points {
		out = append(out, []string{
			p.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", p.NewPositives),
			fmt.Sprintf("%d", p.NewTests),
			fmt.Sprintf("%.2f", p.Ratio),
			fmt.Sprintf("%d", p.ICU),
			fmt.Sprintf("%d", p.ICUDelta),
			fmt.Sprintf("%d", p.DeathDelta),
		})
	}
	return out
}

// Dates returns the series dates in row order, ready for plotting against
// trend predictions.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// round2 rounds to two decimal places, matching the report's ratio contract.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
