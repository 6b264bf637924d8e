// Package dataset implements the daily epidemiological trend pipeline.
//
// The pipeline transforms the upstream civil-protection feed into derived
// indicator tables ready for tabular display or plotting. Every stage
// produces a new table; nothing is mutated in place, which keeps the
// per-region fan-out in the ranking aggregator free of shared state.
//
// # Architecture
//
// The package is organised by pipeline stage:
//
//   - types.go: feed, pruned and derived table types and the column contract
//   - ingest.go: CSV feed parsing with calendar-date normalisation
//   - prune.go: column pruning and regional row filtering
//   - derive.go: per-day delta/ratio derivation on a bounded worker pool
//   - window.go: head/tail/range sub-table selection
//   - trend.go: ordinary least-squares trend fitting over date ordinals
//   - ranking.go: cross-region positivity ranking
//
// Data flows strictly ingest -> prune -> derive -> (window | ranking) ->
// trend; presentation (printing, plotting, export) lives outside this
// package and only consumes its outputs.
//
// # Usage Example
//
//	feed, err := dataset.ParseFile("dpc-covid19-ita-andamento-nazionale.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pruned, err := dataset.Prune(feed, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	deriver := dataset.NewDeriver(0, slog.Default())
//	series, err := deriver.Derive(ctx, pruned)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	window, err := series.Tail(30)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	line, err := dataset.FitTrend(window, dataset.TargetRatio)
package dataset
