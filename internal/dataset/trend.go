package dataset

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"epitrend/internal/errors"
)

// Target selects the series column the trend is fitted against.
type Target int

const (
	TargetRatio Target = iota
	TargetICU
	TargetDeaths
)

// String returns the target's canonical report label.
func (t Target) String() string {
	switch t {
	case TargetRatio:
		return "RATIO"
	case TargetICU:
		return "ICU"
	case TargetDeaths:
		return "DEATHS"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// ParseTarget resolves a report label into a Target.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "ratio", "RATIO":
		return TargetRatio, nil
	case "icu", "ICU":
		return TargetICU, nil
	case "deaths", "DEATHS":
		return TargetDeaths, nil
	default:
		return 0, fmt.Errorf("unknown trend target %q", s)
	}
}

// TrendLine is an ordinary least-squares fit over a series, with one
// prediction per input row aligned by position to Dates.
type TrendLine struct {
	Dates       []time.Time
	Predictions []float64
}

// FitTrend converts each date to its proleptic day ordinal, fits
// target ~ alpha + beta*ordinal over all rows, and returns the fitted values
// aligned to the input dates. Fewer than two distinct dates leave the line
// underdetermined and fail with an insufficient-data error; callers that
// want a flat line must widen the window instead.
func FitTrend(s *Series, target Target) (*TrendLine, error) {
	xs := make([]float64, s.Len())
	ys := make([]float64, s.Len())
	distinct := make(map[int]struct{}, s.Len())

	for i, p := range s.Points {
		ord := dateOrdinal(p.Date)
		distinct[ord] = struct{}{}
		xs[i] = float64(ord)
		ys[i] = targetValue(p, target)
	}

	if len(distinct) < 2 {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("trend fit needs at least 2 distinct dates, got %d", len(distinct)))
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	preds := make([]float64, s.Len())
	for i, x := range xs {
		preds[i] = alpha + beta*x
	}

	return &TrendLine{Dates: s.Dates(), Predictions: preds}, nil
}

func targetValue(p Point, target Target) float64 {
	switch target {
	case TargetICU:
		return float64(p.ICU)
	case TargetDeaths:
		return float64(p.DeathDelta)
	default:
		return p.Ratio
	}
}

// Proleptic ordinal of the Unix epoch: day 1 is 0001-01-01.
const unixEpochOrdinal = 719163

// dateOrdinal converts a calendar date to its proleptic day number, the
// monotonic integer used as the regression's independent variable.
func dateOrdinal(t time.Time) int {
	u := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix()
	days := u / 86400
	if u < 0 && u%86400 != 0 {
		days--
	}
	return int(days) + unixEpochOrdinal
}
