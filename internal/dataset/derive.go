package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/alitto/pond/v2"
)

// Deriver computes the per-day derived indicators over a pruned dataset.
// Each row's derivation reads only rows n and n-1 of the read-only input, so
// the rows are computed on a bounded worker pool; results are collected in
// submission order, which keeps the output identical to sequential
// computation.
type Deriver struct {
	workers int
	pool    pond.ResultPool[Point]
	logger  *slog.Logger
}

// NewDeriver creates a deriver with the given worker-pool size. A size of
// zero or less selects the available CPU count.
func NewDeriver(workers int, logger *slog.Logger) *Deriver {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{
		workers: workers,
		pool:    pond.NewResultPool[Point](workers),
		logger:  logger,
	}
}

// Derive produces the derived table for the pruned input: one row per day
// carrying the daily testing volume, positivity ratio, ICU delta and death
// delta. The first input row has no predecessor to diff against and is not
// present in the output. Zero- or one-row input yields an empty series.
func (d *Deriver) Derive(ctx context.Context, ds *Dataset) (*Series, error) {
	if ds.Len() < 2 {
		d.logger.DebugContext(ctx, "derivation on degenerate input",
			"rows", ds.Len())
		return &Series{}, nil
	}

	group := d.pool.NewGroupContext(ctx)
	for n := 1; n < ds.Len(); n++ {
		n := n
		group.SubmitErr(func() (Point, error) {
			return derivePoint(ds.Rows, n), nil
		})
	}

	points, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("derive metrics: %w", err)
	}

	d.logger.DebugContext(ctx, "derivation completed",
		"input_rows", ds.Len(),
		"derived_rows", len(points),
		"workers", d.workers)

	return &Series{Points: points}, nil
}

// derivePoint computes the derived row for index n >= 1 of the pruned input.
func derivePoint(rows []Row, n int) Point {
	cur, prev := rows[n], rows[n-1]

	newTests := testsDelta(cur, prev)
	cases := cur.NewPositives
	if math.IsNaN(cases) {
		cases = 0
	}

	return Point{
		Date:         cur.Date,
		NewPositives: int64(cases),
		NewTests:     newTests,
		Ratio:        positivityRatio(cases, newTests),
		ICU:          int64(cur.ICU),
		ICUDelta:     int64(cur.ICU - prev.ICU),
		DeathDelta:   deathsDelta(cur, prev),
	}
}

// testsDelta prefers the validated test count and falls back to the raw
// cumulative swab count when either side of the diff predates its
// introduction. The upstream feed switched metrics mid-series; the fallback
// keeps the daily series continuous.
func testsDelta(cur, prev Row) int64 {
	if !math.IsNaN(prev.ValidatedTests) && !math.IsNaN(cur.ValidatedTests) {
		return int64(cur.ValidatedTests - prev.ValidatedTests)
	}
	return int64(cur.Tests - prev.Tests)
}

// positivityRatio is the percentage of new positives over new tests, rounded
// to two decimals. Zero tests and positives exceeding tests both occur in
// real upstream data after reporting corrections; both yield zero.
func positivityRatio(cases float64, newTests int64) float64 {
	if newTests == 0 || cases > float64(newTests) {
		return 0
	}
	return round2(cases / float64(newTests) * 100)
}

// deathsDelta clamps negative diffs to zero: cumulative death counts are
// occasionally revised downward by the source.
func deathsDelta(cur, prev Row) int64 {
	delta := int64(cur.Deaths - prev.Deaths)
	if delta < 0 {
		return 0
	}
	return delta
}
