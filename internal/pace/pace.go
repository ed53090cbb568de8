// Package pace implements the Pace Scorer (spec §4.3, C3): a deterministic
// base score per driver, combined each run with a stochastic noise term.
package pace

import (
	"github.com/paddockml/racesim/internal/domain"
	"github.com/paddockml/racesim/internal/normalize"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Base computes the deterministic component of driver d's pace score,
// given the normalisation descriptors for the active set and the
// context-derived weights. It is computed once per driver at simulation
// start.
func Base(d domain.DriverMetrics, desc normalize.DriverDescriptors, w ContextWeights, policy normalize.Policy) float64 {
	normLongRun := normalize.Score(d.LongRunPaceDelta, desc.LongRunPaceDelta, policy, true)
	normQualy := normalize.Score(d.QualyGapMs, desc.QualyGapMs, policy, true)
	normGrid := normalize.Score(float64(d.GridPosition), desc.GridPosition, policy, true)
	normStraight := normalize.Score(d.StraightlineIndex, desc.StraightlineIndex, policy, false)
	normCorner := normalize.Score(d.CorneringIndex, desc.CorneringIndex, policy, false)
	normPit := normalize.Score(d.PitStopMedian, desc.PitStopMedian, policy, true)
	normTrap := normalize.Score(d.SpeedTrapKph, desc.SpeedTrapKph, policy, false)

	tyreTerm := clamp(d.TyreManagement*w.TyreFactor, 0, 1.1)

	base := 0.28*normLongRun +
		0.20*normQualy +
		0.10*normGrid +
		0.10*(normStraight*w.WStr) +
		0.10*(normCorner*w.WCor) +
		0.06*(1-normPit) +
		0.05*normTrap*w.WStr +
		0.05*d.Consistency +
		0.03*d.Aggression +
		0.03*tyreTerm +
		0.04*d.WetSkill*w.WWet

	// Enabled pace VariationFactors are folded in as a private
	// team-strength multiplier (spec §4.7/§9), applied once here rather
	// than pre-scaling any single input metric.
	return base * d.EffectivePaceMultiplier()
}

// NoiseSigma computes the per-run noise standard deviation from the
// context's randomness input and the context weights.
func NoiseSigma(randomness float64, w ContextWeights) float64 {
	return (0.35 + 0.45*randomness) * w.WNoise * w.SCFactor
}

// FinishedScore adds a draw from N(0, sigma) to the base score for a driver
// who finished the race.
func FinishedScore(base float64, noise float64) float64 {
	return base + noise
}

// DNFScore computes the (very low) score assigned to a driver who did not
// finish: -5 + 0.5*N(0, sigma), ranking below finishers with probability
// near 1 without structurally excluding a top-10 finish (spec §9 design
// note on points attribution).
func DNFScore(noise float64) float64 {
	return -5 + 0.5*noise
}
