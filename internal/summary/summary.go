// Package summary implements the Summary Builder (spec §4.6, C6): turns
// accumulated per-driver run statistics into calibrated probabilities and
// the final sorted DriverResult list.
package summary

import (
	"math"
	"sort"

	"github.com/paddockml/racesim/internal/domain"
	"github.com/paddockml/racesim/internal/ranker"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Build converts per-driver ranker.Stats into a sorted SimulationSummary.
func Build(drivers []domain.DriverMetrics, stats []ranker.Stats, ctx domain.RaceContext) domain.SimulationSummary {
	results := make([]domain.DriverResult, len(drivers))
	runs := float64(ctx.Runs)

	for i, d := range drivers {
		s := stats[i]
		averageFinish := s.TotalFinish / runs
		variance := s.TotalFinishSquared/runs - averageFinish*averageFinish
		if variance < 0 {
			variance = 0
		}
		consistency := clamp01(1 - variance/12)

		results[i] = domain.DriverResult{
			DriverID:          d.ID,
			Code:              d.Code,
			Name:              d.Name,
			Team:              d.Team,
			WinProbability:    float64(s.Wins) / runs,
			PodiumProbability: float64(s.Podiums) / runs,
			DNFProbability:    float64(s.DNFs) / runs,
			AverageFinish:     averageFinish,
			ExpectedPoints:    s.Points / runs,
			BestFinish:        s.BestFinish,
			WorstFinish:       s.WorstFinish,
			ConsistencyIndex:  consistency,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		wi, wj := results[i].WinProbability, results[j].WinProbability
		if math.Abs(wi-wj) > 1e-3 {
			return wi > wj
		}
		return results[i].AverageFinish < results[j].AverageFinish
	})

	out := domain.SimulationSummary{
		Results: results,
		Context: ctx,
		Runs:    ctx.Runs,
		PerformanceMetrics: map[string]interface{}{
			"driverCount": len(drivers),
		},
	}
	out.Finalize()
	return out
}
