// Package reliability implements the Reliability Sampler (spec §4.4, C4):
// per-driver-per-run finish/DNF decisions amplified by race context.
package reliability

import "github.com/paddockml/racesim/internal/domain"

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Amplifier computes the context-derived multiplier applied to a driver's
// raw DNF rate.
func Amplifier(ctx domain.RaceContext) float64 {
	amp := 1.0
	if ctx.Weather == domain.WeatherWet {
		amp += 0.08
	}
	if ctx.TyreStress == domain.TyreStressHigh {
		amp += 0.05
	}
	switch ctx.SafetyCar {
	case domain.SafetyCarMedium:
		amp += 0.01
	case domain.SafetyCarHigh:
		amp += 0.02
	}
	return amp
}

// BaseReliability computes the probability that driver with the given
// dnfRate finishes, under the given context amplifier.
func BaseReliability(dnfRate, amplifier float64) float64 {
	return clamp(1-dnfRate*amplifier, 0.04, 0.98)
}

// Finishes reports whether a driver finishes given a uniform draw u and
// their baseReliability: finishes iff u < baseReliability. Exactly one
// uniform must be consumed per driver per run, before that driver's noise
// draw, to keep RNG consumption order fixed across implementations.
func Finishes(u, baseReliability float64) bool {
	return u < baseReliability
}
