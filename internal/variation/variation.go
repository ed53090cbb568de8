// Package variation implements the Variation Applicator (spec §4.7, C7):
// it maps the enabled news-derived factor list into driver- and
// context-level adjustments before the engine runs. The engine never
// observes factors directly.
package variation

import (
	"math"

	"github.com/paddockml/racesim/internal/domain"
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

// Apply returns a new (drivers, context) pair with every enabled, matching
// factor folded in. The input slices are left untouched.
func Apply(drivers []domain.DriverMetrics, ctx domain.RaceContext, factors []domain.VariationFactor) ([]domain.DriverMetrics, domain.RaceContext) {
	out := append([]domain.DriverMetrics(nil), drivers...)
	strategyAccum := 0.0

	for _, f := range factors {
		if !f.Enabled {
			continue
		}
		magnitude := domain.ClampMagnitude(f.Magnitude)

		switch f.ImpactType {
		case domain.ImpactPace:
			for i := range out {
				if f.Matches(out[i]) {
					out[i] = applyPace(out[i], magnitude)
				}
			}
		case domain.ImpactReliability:
			// Global sign convention (spec §3): negative magnitude worsens
			// a driver. For reliability, "worse" means a higher DNF rate,
			// so a negative magnitude must increase dnfRate — i.e. the
			// adjustment is subtracted, not added (spec §4.7/§8 scenario
			// S4).
			for i := range out {
				if f.Matches(out[i]) {
					out[i].DNFRate = clamp(out[i].DNFRate-0.05*magnitude, 0, 0.6)
				}
			}
		case domain.ImpactQualifying:
			for i := range out {
				if f.Matches(out[i]) {
					delta := int(math.Round(2 * magnitude))
					pos := out[i].GridPosition - delta
					if pos < 1 {
						pos = 1
					}
					out[i].GridPosition = pos
				}
			}
		case domain.ImpactStrategy:
			strategyAccum += magnitude * 0.15
		}
	}

	ctx.Randomness = clamp(ctx.Randomness+strategyAccum, 0, 1)
	return out, ctx
}

// applyPace folds a pace factor's magnitude into a driver's private
// paceMultiplier, which the pace scorer applies to the whole deterministic
// base score (spec §4.7/§9 design note: this implementation chooses the
// team-strength-multiplier mechanism over scaling longRunPaceDelta, since
// the multiplier's effect is then monotonic in magnitude regardless of the
// sign of a driver's raw pace inputs). Multiple matching pace factors
// compound multiplicatively.
func applyPace(d domain.DriverMetrics, magnitude float64) domain.DriverMetrics {
	multiplier := clamp(1+0.12*magnitude, 0.6, 1.5)
	d.PaceMultiplier = d.EffectivePaceMultiplier() * multiplier
	return d
}
