// Command trend-report runs the national or regional trend report: it
// ingests the daily feed, derives the secondary indicators, applies an
// optional head/tail/range window, fits a linear trend, prints the table and
// exports it to the configured reports directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/lmittmann/tint"

	"epitrend/internal/config"
	"epitrend/internal/dataset"
	"epitrend/internal/errors"
	"epitrend/internal/exporter"
	"epitrend/internal/region"
)

func main() {
	feedPath := flag.String("feed", "", "feed CSV path (defaults to the configured national or regional feed)")
	regionCode := flag.Int("region", 0, "region code to report on (0 = national)")
	head := flag.Int("head", 0, "keep only the first N days")
	tail := flag.Int("tail", 0, "keep only the last N days")
	begin := flag.Int("begin", 0, "window begin day (1-indexed, with -end)")
	end := flag.Int("end", 0, "window end day (inclusive, with -begin)")
	target := flag.String("target", "ratio", "trend target: ratio, icu or deaths")
	out := flag.String("out", "", "output directory for reports (defaults to the configured directory)")
	base := flag.String("name", "trend-report", "base name for exported report files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	var reg *region.Region
	if *regionCode != 0 {
		r, err := region.FromCode(*regionCode)
		if err != nil {
			logger.Error("Unknown region", "code", *regionCode, "error", err)
			os.Exit(1)
		}
		reg = &r
	}

	path := *feedPath
	if path == "" {
		if reg != nil {
			path = cfg.Feeds.Regional
		} else {
			path = cfg.Feeds.National
		}
	}

	logger.Info("Loading feed", "path", path)
	feed, err := dataset.ParseFile(path)
	if err != nil {
		logger.Error("Failed to ingest feed", "error", err)
		os.Exit(1)
	}

	pruned, err := dataset.Prune(feed, reg)
	if err != nil {
		logger.Error("Failed to prune feed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	deriver := dataset.NewDeriver(cfg.Workers(), logger)
	series, err := deriver.Derive(ctx, pruned)
	if err != nil {
		logger.Error("Failed to derive metrics", "error", err)
		os.Exit(1)
	}

	series, label, err := applyWindow(series, *head, *tail, *begin, *end)
	if err != nil {
		if errors.IsInvalidRange(err) {
			logger.Error("Requested window is out of bounds", "error", err)
			os.Exit(2)
		}
		logger.Error("Failed to select window", "error", err)
		os.Exit(1)
	}
	logger.Info("Report window selected", "window", label, "rows", series.Len())

	trendTarget, err := dataset.ParseTarget(*target)
	if err != nil {
		logger.Error("Invalid trend target", "error", err)
		os.Exit(1)
	}

	line, err := dataset.FitTrend(series, trendTarget)
	if err != nil {
		if !errors.IsInsufficientData(err) {
			logger.Error("Failed to fit trend", "error", err)
			os.Exit(1)
		}
		logger.Warn("Window too small for a trend line, exporting without one", "error", err)
		line = nil
	}

	printSeries(series, line)

	dir := *out
	if dir == "" {
		dir = cfg.Export.Dir
	}
	writer := exporter.NewWriter(dir, logger)
	csvPath, xlsxPath, err := writer.SeriesReport(ctx, *base, series, line, cfg.Export.Excel)
	if err != nil {
		logger.Error("Failed to export report", "error", err)
		os.Exit(1)
	}
	logger.Info("Report exported", "csv", csvPath, "xlsx", xlsxPath)
}

// applyWindow maps the window flags onto the selector operations. Flags are
// mutually exclusive by precedence: range, head, tail, full series.
func applyWindow(s *dataset.Series, head, tail, begin, end int) (*dataset.Series, string, error) {
	switch {
	case begin != 0 || end != 0:
		w, err := s.Range(begin, end)
		return w, fmt.Sprintf("day %d to day %d", begin, end), err
	case head != 0:
		w, err := s.Head(head)
		return w, fmt.Sprintf("first %d days", head), err
	case tail != 0:
		w, err := s.Tail(tail)
		return w, fmt.Sprintf("last %d days", tail), err
	default:
		return s, "full series", nil
	}
}

// printSeries renders the report table on stdout.
func printSeries(s *dataset.Series, line *dataset.TrendLine) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	headers := s.Headers()
	if line != nil {
		headers = append(headers, "TREND")
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for i, record := range s.Records() {
		if line != nil {
			record = append(record, fmt.Sprintf("%.2f", line.Predictions[i]))
		}
		fmt.Fprintln(w, strings.Join(record, "\t"))
	}
}

// newLogger builds the CLI logger from the logging configuration.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: cfg.LogLevel()}))
}
