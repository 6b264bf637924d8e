package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"epitrend/internal/dataset"
	apperrors "epitrend/internal/errors"
)

// Writer exports report tables under a fixed output directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a report writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // add a UTF-8 BOM so Excel detects the encoding
}

// WriteCSV writes a table to name under the writer's directory and returns
// the full path.
func (w *Writer) WriteCSV(name string, options WriteOptions) (string, error) {
	fullPath := filepath.Join(w.dir, name)

	w.logger.Info("writing CSV report",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", apperrors.NewExportError("create report directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", apperrors.NewExportError("create report file", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return "", apperrors.NewExportError("write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return "", apperrors.NewExportError("write headers", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return "", apperrors.NewExportError(fmt.Sprintf("write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", apperrors.NewExportError("flush report", err)
	}
	return fullPath, nil
}

// WriteSeriesCSV writes a derived series, optionally with the fitted trend
// appended as a final column aligned row by row.
func (w *Writer) WriteSeriesCSV(name string, s *dataset.Series, line *dataset.TrendLine) (string, error) {
	headers, records, err := seriesTable(s, line)
	if err != nil {
		return "", err
	}
	return w.WriteCSV(name, WriteOptions{Headers: headers, Records: records, BOMPrefix: true})
}

// WriteRankingCSV writes the cross-region ranking table.
func (w *Writer) WriteRankingCSV(name string, entries []dataset.RankingEntry) (string, error) {
	return w.WriteCSV(name, WriteOptions{
		Headers:   dataset.RankingHeaders(),
		Records:   dataset.RankingRecords(entries),
		BOMPrefix: true,
	})
}

// seriesTable renders a series (plus optional trend column) as cells.
func seriesTable(s *dataset.Series, line *dataset.TrendLine) ([]string, [][]string, error) {
	headers := s.Headers()
	records := s.Records()
	if line == nil {
		return headers, records, nil
	}
	if len(line.Predictions) != len(records) {
		return nil, nil, apperrors.NewExportError(
			fmt.Sprintf("trend has %d predictions for %d rows", len(line.Predictions), len(records)), nil)
	}
	headers = append(headers, "TREND")
	for i := range records {
		records[i] = append(records[i], fmt.Sprintf("%.2f", line.Predictions[i]))
	}
	return headers, records, nil
}
