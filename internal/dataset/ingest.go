package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"epitrend/internal/errors"
)

// feed date formats, most specific first. The upstream feed carries a
// timestamp; time-of-day is discarded after parsing.
var dateFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFile reads a feed CSV from disk.
func ParseFile(path string) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIngestionError("open feed", err).WithContext("path", path)
	}
	defer f.Close()

	feed, err := ParseFeed(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return feed, nil
}

// ParseFeed reads a raw tabular feed into a Feed. The first column must be a
// parseable date; remaining columns are named numeric/categorical fields.
// All rows and the original column order are preserved.
func ParseFeed(r io.Reader) (*Feed, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewIngestionError("read feed", err)
	}
	if len(records) == 0 {
		return nil, errors.NewIngestionError("empty feed", nil)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	if len(header) == 0 || strings.TrimSpace(header[0]) != colDate {
		return nil, errors.NewIngestionError(
			fmt.Sprintf("first column must be %q", colDate), nil)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	_, regional := index[colRegionCode]

	feed := &Feed{
		Columns:  append([]string(nil), header...),
		Rows:     make([]Record, 0, len(records)-1),
		Regional: regional,
	}

	for line, rec := range records[1:] {
		date, err := parseDate(cell(rec, index, colDate))
		if err != nil {
			return nil, errors.NewIngestionError(
				fmt.Sprintf("parse date (line %d)", line+2), err)
		}

		row := Record{Date: date}
		for _, c := range []struct {
			column     string
			dst        *float64
			allowEmpty bool
		}{
			{colNewPositives, &row.NewPositives, true},
			{colICU, &row.ICU, false},
			{colDeaths, &row.Deaths, false},
			{colTests, &row.Tests, false},
			{colValidatedTests, &row.ValidatedTests, true},
		} {
			if _, ok := index[c.column]; !ok {
				// Absent columns are a schema problem, reported by pruning.
				*c.dst = math.NaN()
				continue
			}
			v, err := parseNumber(cell(rec, index, c.column), c.allowEmpty)
			if err != nil {
				return nil, errors.NewIngestionError(
					fmt.Sprintf("parse %s (line %d)", c.column, line+2), err)
			}
			*c.dst = v
		}
		if regional {
			code, err := strconv.Atoi(strings.TrimSpace(cell(rec, index, colRegionCode)))
			if err != nil {
				return nil, errors.NewIngestionError(
					fmt.Sprintf("parse region code (line %d)", line+2), err)
			}
			row.RegionCode = code
			row.RegionName = strings.TrimSpace(cell(rec, index, colRegionName))
		}
		feed.Rows = append(feed.Rows, row)
	}

	return feed, nil
}

// cell returns the named column's raw value, or "" when the column is absent
// from the header or the row is short.
func cell(rec []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// parseDate normalises a feed timestamp to a calendar date in UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %q", s)
}

// parseNumber parses a numeric cell. Empty cells map to NaN only where the
// feed legitimately leaves them blank (the validated test count for early
// dates, the new-positive count on the opening row); everywhere else an
// empty or malformed cell is a feed defect and must be rejected rather than
// converted to garbage downstream.
func parseNumber(s string, allowEmpty bool) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if allowEmpty {
			return math.NaN(), nil
		}
		return 0, fmt.Errorf("empty cell")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed number %q", s)
	}
	return v, nil
}
