// Package engine ties together the Simulator Engine components (C1-C6):
// deterministic RNG, metric normalisation, pace scoring, reliability
// sampling, run ranking, and summary building, as specified in spec.md §4.
package engine

import (
	"math"
	"math/rand"

	"github.com/paddockml/racesim/internal/domain"
	"github.com/paddockml/racesim/internal/normalize"
	"github.com/paddockml/racesim/internal/ranker"
	"github.com/paddockml/racesim/internal/rng"
	"github.com/paddockml/racesim/internal/summary"
)

// DefaultPolicy is the normalisation policy selected for this deployment
// (SPEC_FULL.md §9): Z-score sigmoid.
const DefaultPolicy = normalize.ZScoreSigmoid

// RunEngine executes one full simulation: validates the active driver set,
// seeds the RNG, runs the ranker loop, and builds the final summary.
//
// If ctx.Seed is nil, a non-deterministic seed is drawn from the process
// RNG; callers that need reproducibility must always pass a seed.
func RunEngine(
	drivers []domain.DriverMetrics,
	ctx domain.RaceContext,
	signals ranker.Signals,
) (*domain.SimulationSummary, error) {
	if err := domain.ValidateActiveSet(drivers); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := ctx.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	ctx = ctx.Sanitize()

	seed := uint32(0)
	if ctx.Seed != nil {
		seed = uint32(*ctx.Seed)
	} else {
		seed = uint32(rand.Int63() & 0xFFFFFFFF)
	}
	source := rng.New(seed)

	stats, err := ranker.Run(drivers, ctx, source, DefaultPolicy, signals)
	if err != nil {
		return nil, err
	}

	s := summary.Build(drivers, stats, ctx)
	if err := checkInvariants(s); err != nil {
		return nil, err
	}
	return &s, nil
}

// checkInvariants enforces the universal testable properties from spec §8
// that must hold for any valid summary: a probability simplex across win
// probabilities, and no NaNs.
func checkInvariants(s domain.SimulationSummary) error {
	total := 0.0
	for _, r := range s.Results {
		if math.IsNaN(r.WinProbability) || math.IsNaN(r.AverageFinish) || math.IsNaN(r.ExpectedPoints) {
			return domain.NewInvariantError("nan-result", "simulation produced a NaN result field")
		}
		if r.WinProbability < 0 || r.WinProbability > 1 {
			return domain.NewInvariantError("probability-range", "win probability out of [0,1]")
		}
		total += r.WinProbability
	}
	if len(s.Results) > 0 && math.Abs(total-1) > 1e-6 {
		return domain.NewInvariantError("simplex-violation", "win probabilities do not sum to 1")
	}
	return nil
}
