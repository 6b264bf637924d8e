package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"github.com/alitto/pond/v2"

	"epitrend/internal/region"
)

// RankingEntry is one row of the cross-region ranking table.
type RankingEntry struct {
	Rank   int
	Region region.Region
	Ratio  float64
}

// Ranker runs the prune/derive pipeline independently per region and ranks
// the regions by their latest positivity ratio. The per-region pipelines
// share only the read-only feed; results are keyed by region through the
// group's submission order, never by completion order, so parallel runs stay
// deterministic.
type Ranker struct {
	deriver *Deriver
	pool    pond.ResultPool[float64]
	logger  *slog.Logger
}

// NewRanker creates a ranker with the given worker-pool size. A size of zero
// or less selects the available CPU count.
func NewRanker(workers int, logger *slog.Logger) *Ranker {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{
		deriver: NewDeriver(workers, logger),
		pool:    pond.NewResultPool[float64](workers),
		logger:  logger,
	}
}

// Rank produces the ranking table: one row per enumerated region, sorted
// descending by latest positivity ratio. Ties keep the canonical enumeration
// order (the sort is stable). A region whose derived series is empty ranks
// with a zero ratio.
func (r *Ranker) Rank(ctx context.Context, feed *Feed) ([]RankingEntry, error) {
	regions := region.All()

	group := r.pool.NewGroupContext(ctx)
	for _, reg := range regions {
		reg := reg
		group.SubmitErr(func() (float64, error) {
			return r.latestRatio(ctx, feed, reg)
		})
	}

	// Wait returns results in submission order, aligned to regions.
	ratios, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("rank regions: %w", err)
	}

	entries := make([]RankingEntry, len(regions))
	for i, reg := range regions {
		entries[i] = RankingEntry{Region: reg, Ratio: ratios[i]}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Ratio > entries[j].Ratio
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	r.logger.InfoContext(ctx, "regional ranking completed",
		"regions", len(entries),
		"top_region", entries[0].Region.Name,
		"top_ratio", entries[0].Ratio)

	return entries, nil
}

// RankingHeaders returns the ranking table's canonical report labels.
func RankingHeaders() []string {
	return []string{"RANK", "REGION", "RATIO"}
}

// RankingRecords renders ranking entries as string cells in header order.
func RankingRecords(entries []RankingEntry) [][]string {
	out := make([][]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, []string{
			fmt.Sprintf("%d", e.Rank),
			e.Region.Name,
			fmt.Sprintf("%.2f", e.Ratio),
		})
	}
	return out
}

// latestRatio runs prune -> derive for one region and extracts the ratio of
// the most recent day.
func (r *Ranker) latestRatio(ctx context.Context, feed *Feed, reg region.Region) (float64, error) {
	pruned, err := Prune(feed, &reg)
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w", reg.Name, err)
	}

	series, err := r.deriver.Derive(ctx, pruned)
	if err != nil {
		return 0, fmt.Errorf("derive %s: %w", reg.Name, err)
	}

	if series.Len() == 0 {
		r.logger.WarnContext(ctx, "region has no derivable rows",
			"region", reg.Name, "code", reg.Code)
		return 0, nil
	}
	return series.Points[series.Len()-1].Ratio, nil
}
