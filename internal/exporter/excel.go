package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"epitrend/internal/dataset"
	apperrors "epitrend/internal/errors"
)

const sheetName = "Report"

// WriteXLSX writes a table to an Excel workbook under the writer's directory
// and returns the full path.
func (w *Writer) WriteXLSX(name string, headers []string, records [][]string) (string, error) {
	fullPath := filepath.Join(w.dir, name)

	w.logger.Info("writing XLSX report",
		slog.String("path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", apperrors.NewExportError("create report directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", apperrors.NewExportError("create sheet", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", apperrors.NewExportError("remove default sheet", err)
	}

	if err := writeRow(f, 1, headers); err != nil {
		return "", err
	}
	for i, record := range records {
		if err := writeRow(f, i+2, record); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return "", apperrors.NewExportError("save workbook", err)
	}
	return fullPath, nil
}

// writeRow fills one sheet row, converting numeric-looking cells so Excel
// treats them as numbers.
func writeRow(f *excelize.File, rowNum int, cells []string) error {
	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return apperrors.NewExportError("address cell", err)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			err = f.SetCellValue(sheetName, cell, n)
			if err != nil {
				return apperrors.NewExportError("set cell", err)
			}
			continue
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return apperrors.NewExportError("set cell", err)
		}
	}
	return nil
}

// SeriesReport writes a derived series (with optional trend column) as CSV
// and, when excel is set, XLSX. The two files are independent and written
// concurrently. Returned paths are in csv, xlsx order; the xlsx path is
// empty when skipped.
func (w *Writer) SeriesReport(ctx context.Context, base string, s *dataset.Series, line *dataset.TrendLine, excel bool) (string, string, error) {
	headers, records, err := seriesTable(s, line)
	if err != nil {
		return "", "", err
	}
	return w.report(ctx, base, headers, records, excel)
}

// RankingReport writes the regional ranking as CSV and, when excel is set,
// XLSX.
func (w *Writer) RankingReport(ctx context.Context, base string, entries []dataset.RankingEntry, excel bool) (string, string, error) {
	return w.report(ctx, base, dataset.RankingHeaders(), dataset.RankingRecords(entries), excel)
}

func (w *Writer) report(ctx context.Context, base string, headers []string, records [][]string, excel bool) (string, string, error) {
	var csvPath, xlsxPath string

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		csvPath, err = w.WriteCSV(base+".csv", WriteOptions{Headers: headers, Records: records, BOMPrefix: true})
		return err
	})
	if excel {
		g.Go(func() error {
			var err error
			xlsxPath, err = w.WriteXLSX(base+".xlsx", headers, records)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return "", "", fmt.Errorf("export %s: %w", base, err)
	}
	return csvPath, xlsxPath, nil
}
