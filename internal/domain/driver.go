// Package domain holds the data model shared by the simulation engine,
// the orchestrator, and the ingest layer.
package domain

import "fmt"

// DriverMetrics is one row of per-driver performance inputs to a simulation.
type DriverMetrics struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Team string `json:"team"`

	GridPosition int     `json:"gridPosition"`
	QualyGapMs   float64 `json:"qualyGapMs"`

	LongRunPaceDelta  float64 `json:"longRunPaceDelta"`
	StraightlineIndex float64 `json:"straightlineIndex"`
	CorneringIndex    float64 `json:"corneringIndex"`
	SpeedTrapKph      float64 `json:"speedTrapKph"`

	PitStopMedian float64 `json:"pitStopMedian"`

	DNFRate float64 `json:"dnfRate"`

	WetSkill       float64 `json:"wetSkill"`
	Consistency    float64 `json:"consistency"`
	TyreManagement float64 `json:"tyreManagement"`
	Aggression     float64 `json:"aggression"`
	Experience     float64 `json:"experience"`

	// StandingsPrior is an optional championship-standings weight, used only
	// as a tiebreak hint by callers; the engine itself does not read it.
	StandingsPrior *float64 `json:"standingsPrior,omitempty"`

	// PaceMultiplier is the private team-strength weight the Variation
	// Applicator (C7) folds pace factors into (spec §4.7/§9): it multiplies
	// the driver's deterministic base pace score. The zero value is treated
	// as the neutral 1.0 (no adjustment) by the pace scorer, so fixtures
	// that never touch this field need no explicit default.
	PaceMultiplier float64 `json:"-"`
}

// EffectivePaceMultiplier returns PaceMultiplier, or 1 if it was never set.
func (d DriverMetrics) EffectivePaceMultiplier() float64 {
	if d.PaceMultiplier == 0 {
		return 1
	}
	return d.PaceMultiplier
}

// Validate checks the per-row invariants from the spec: numeric fields must
// be finite and grid position must be positive.
func (d DriverMetrics) Validate() error {
	if d.GridPosition < 1 {
		return fmt.Errorf("driver %s: gridPosition must be >= 1, got %d", d.Code, d.GridPosition)
	}
	for name, v := range map[string]float64{
		"qualyGapMs":        d.QualyGapMs,
		"longRunPaceDelta":  d.LongRunPaceDelta,
		"straightlineIndex": d.StraightlineIndex,
		"corneringIndex":    d.CorneringIndex,
		"speedTrapKph":      d.SpeedTrapKph,
		"pitStopMedian":     d.PitStopMedian,
		"dnfRate":           d.DNFRate,
		"wetSkill":          d.WetSkill,
		"consistency":       d.Consistency,
		"tyreManagement":    d.TyreManagement,
		"aggression":        d.Aggression,
		"experience":        d.Experience,
	} {
		if v != v || v > 1e308 || v < -1e308 { // NaN / out-of-range guard
			return fmt.Errorf("driver %s: field %s is not finite", d.Code, name)
		}
	}
	return nil
}

// ValidateActiveSet enforces the simulation-wide invariant that the active
// driver set contains at least two rows and every row is individually valid.
func ValidateActiveSet(drivers []DriverMetrics) error {
	if len(drivers) < 2 {
		return fmt.Errorf("active driver set must contain at least 2 drivers, got %d", len(drivers))
	}
	for i := range drivers {
		if err := drivers[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
