// Command region-ranking ingests the regional feed, runs the derivation
// pipeline independently for every region and prints the cross-region
// positivity ranking as of the feed's most recent date.
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
	"epitrend/internal/exporter"
)

func main() {
	feedPath := flag.String("feed", "", "regional feed CSV path (defaults to the configured regional feed)")
	out := flag.String("out", "", "output directory for reports (defaults to the configured directory)")
	base := flag.String("name", "region-ranking", "base name for exported report files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	path := *feedPath
	if path == "" {
		path = cfg.Feeds.Regional
	}

	logger.Info("Loading regional feed", "path", path)
	feed, err := dataset.ParseFile(path)
	if err != nil {
		logger.Error("Failed to ingest feed", "error", err)
		os.Exit(1)
	}
	if !feed.Regional {
		logger.Error("Feed carries no region column; the ranking needs the regional feed", "path", path)
		os.Exit(1)
	}

	ctx := context.Background()
	ranker := dataset.NewRanker(cfg.Workers(), logger)
	entries, err := ranker.Rank(ctx, feed)
	if err != nil {
		logger.Error("Failed to rank regions", "error", err)
		os.Exit(1)
	}

	printRanking(entries)

	dir := *out
	if dir == "" {
		dir = cfg.Export.Dir
	}
	writer := exporter.NewWriter(dir, logger)
	csvPath, xlsxPath, err := writer.RankingReport(ctx, *base, entries, cfg.Export.Excel)
	if err != nil {
		logger.Error("Failed to export ranking", "error", err)
		os.Exit(1)
	}
	logger.Info("Ranking exported", "csv", csvPath, "xlsx", xlsxPath)
}

// printRanking renders the ranking table on stdout.
func printRanking(entries []dataset.RankingEntry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, strings.Join(dataset.RankingHeaders(), "\t"))
	for _, record := range dataset.RankingRecords(entries) {
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
