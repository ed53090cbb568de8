// Package ranker implements the Run Ranker & Aggregator (spec §4.5, C5):
// it drives the per-run simulation loop, ranks drivers each run, and
// accumulates the raw statistics the Summary Builder (C6) turns into
// probabilities.
package ranker

import (
	"sort"

	"github.com/paddockml/racesim/internal/domain"
	"github.com/paddockml/racesim/internal/normalize"
	"github.com/paddockml/racesim/internal/pace"
	"github.com/paddockml/racesim/internal/reliability"
	"github.com/paddockml/racesim/internal/rng"
)

// PointsTable awards points to the top 10 finishing positions of a run,
// regardless of DNF status (spec §9 design note).
var PointsTable = [10]float64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// Stats accumulates per-driver totals across all runs of a simulation.
type Stats struct {
	TotalFinish        float64
	TotalFinishSquared float64
	BestFinish         int
	WorstFinish        int
	Wins               int
	Podiums            int
	Points             float64
	DNFs               int
}

// Signals is the host cooperation surface the engine calls into: OnProgress
// reports integer percent complete, ShouldCancel is polled at each progress
// tick so a cooperative cancellation can be observed (spec §4.5, §5, §9).
type Signals struct {
	OnProgress   func(percent int)
	ShouldCancel func() bool
}

// Run executes `runs` iterations over the active driver set and returns
// accumulated Stats per driver (indexed the same as drivers), or
// domain.ErrCancelled if ShouldCancel() returned true at a progress tick.
func Run(
	drivers []domain.DriverMetrics,
	ctx domain.RaceContext,
	source *rng.Source,
	policy normalize.Policy,
	signals Signals,
) ([]Stats, error) {
	n := len(drivers)
	stats := make([]Stats, n)
	for i := range stats {
		stats[i].BestFinish = n + 1
		stats[i].WorstFinish = 0
	}

	desc := normalize.BuildDriverDescriptors(drivers)
	weights := pace.DeriveWeights(ctx)
	bases := make([]float64, n)
	for i, d := range drivers {
		bases[i] = pace.Base(d, desc, weights, policy)
	}
	amplifier := reliability.Amplifier(ctx)
	sigma := pace.NoiseSigma(ctx.Randomness, weights)

	tickEvery := ctx.Runs / 20
	if tickEvery < 1 {
		tickEvery = 1
	}

	type scored struct {
		index    int
		score    float64
		finished bool
	}
	order := make([]scored, n)

	for run := 0; run < ctx.Runs; run++ {
		finished := make([]bool, n)
		for i, d := range drivers {
			u := source.Next()
			base := reliability.BaseReliability(d.DNFRate, amplifier)
			finished[i] = reliability.Finishes(u, base)
		}
		noise := source.NormalBatch(n, 0, sigma)

		for i := range drivers {
			var sc float64
			if finished[i] {
				sc = pace.FinishedScore(bases[i], noise[i])
			} else {
				sc = pace.DNFScore(noise[i])
			}
			order[i] = scored{index: i, score: sc, finished: finished[i]}
		}

		sort.SliceStable(order, func(a, b int) bool {
			return order[a].score > order[b].score
		})

		for pos, o := range order {
			position := pos + 1
			s := &stats[o.index]
			s.TotalFinish += float64(position)
			s.TotalFinishSquared += float64(position) * float64(position)
			if position < s.BestFinish {
				s.BestFinish = position
			}
			if position > s.WorstFinish {
				s.WorstFinish = position
			}
			if position == 1 {
				s.Wins++
			}
			if position <= 3 {
				s.Podiums++
			}
			if position <= 10 {
				s.Points += PointsTable[position-1]
			}
			if !o.finished {
				s.DNFs++
			}
		}

		if (run+1)%tickEvery == 0 || run == ctx.Runs-1 {
			percent := int(float64(run+1) / float64(ctx.Runs) * 100)
			if signals.OnProgress != nil {
				signals.OnProgress(percent)
			}
			if signals.ShouldCancel != nil && signals.ShouldCancel() {
				return nil, domain.ErrCancelled
			}
		}
	}

	return stats, nil
}
