// Package normalize implements the Metric Normaliser (spec §4.2, C2): it
// precomputes a per-metric descriptor across the active driver set, then
// maps raw values to bounded, comparable scores.
//
// Both normalisation policies from the spec are implemented. Descriptor
// statistics (mean, standard deviation, min, max) are computed with
// gonum.org/v1/gonum/stat and gonum.org/v1/gonum/floats rather than
// hand-rolled loops, matching how the reference pace-scoring model in this
// ecosystem computes the same quantities.
package normalize

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Policy selects which of the two normalisation rules Score uses.
type Policy int

const (
	// Linear maps (value-min)/(max-min), clamped to [0,1]. Retained as the
	// legacy/primary policy.
	Linear Policy = iota
	// ZScoreSigmoid maps sigma((value-mean)/std) via the logistic function.
	// This is the default policy selected for this deployment (SPEC_FULL.md
	// §9 Design Notes): it is more robust to outliers within a small grid
	// and gives the gonum descriptor stats a concrete consumer.
	ZScoreSigmoid
)

// Descriptor holds the per-metric statistics needed by either policy.
type Descriptor struct {
	Min, Max, Mean, Std, Range float64
}

// Describe computes a Descriptor over values. An empty slice returns the
// neutral descriptor {mean:0.5, std:0.5} specified for the empty-input edge
// case.
func Describe(values []float64) Descriptor {
	if len(values) == 0 {
		return Descriptor{Mean: 0.5, Std: 0.5}
	}
	vs := append([]float64(nil), values...)
	min := floats.Min(vs)
	max := floats.Max(vs)
	mean := stat.Mean(vs, nil)
	std := stat.StdDev(vs, nil)
	return Descriptor{Min: min, Max: max, Mean: mean, Std: std, Range: max - min}
}

// Score maps a raw value to a bounded score in [0,1] using policy d.
// invert should be true for "lower is better" metrics (qualyGapMs,
// longRunPaceDelta, pitStopMedian, gridPosition).
func Score(value float64, d Descriptor, policy Policy, invert bool) float64 {
	var s float64
	switch policy {
	case Linear:
		if d.Range == 0 {
			s = 0.5
		} else {
			s = (value - d.Min) / d.Range
			if s < 0 {
				s = 0
			}
			if s > 1 {
				s = 1
			}
		}
	case ZScoreSigmoid:
		if d.Std == 0 {
			s = 0.5
		} else {
			z := (value - d.Mean) / d.Std
			s = 1 / (1 + math.Exp(-z))
		}
	}
	if invert {
		return 1 - s
	}
	return s
}
