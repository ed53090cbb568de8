package domain

import "fmt"

// TrackProfile is the closed set of circuit archetypes the pace scorer
// weights differently.
type TrackProfile string

const (
	TrackBalanced  TrackProfile = "balanced"
	TrackPower     TrackProfile = "power"
	TrackTechnical TrackProfile = "technical"
)

func (t TrackProfile) Validate() error {
	switch t {
	case TrackBalanced, TrackPower, TrackTechnical:
		return nil
	default:
		return fmt.Errorf("invalid trackProfile %q", string(t))
	}
}

// Weather is the closed set of race-day conditions.
type Weather string

const (
	WeatherDry   Weather = "dry"
	WeatherMixed Weather = "mixed"
	WeatherWet   Weather = "wet"
)

func (w Weather) Validate() error {
	switch w {
	case WeatherDry, WeatherMixed, WeatherWet:
		return nil
	default:
		return fmt.Errorf("invalid weather %q", string(w))
	}
}

// TyreStress is the closed set of circuit abrasiveness levels.
type TyreStress string

const (
	TyreStressLow    TyreStress = "low"
	TyreStressMedium TyreStress = "medium"
	TyreStressHigh   TyreStress = "high"
)

func (t TyreStress) Validate() error {
	switch t {
	case TyreStressLow, TyreStressMedium, TyreStressHigh:
		return nil
	default:
		return fmt.Errorf("invalid tyreStress %q", string(t))
	}
}

// SafetyCarLikelihood is the closed set of safety-car tendency levels.
type SafetyCarLikelihood string

const (
	SafetyCarLow    SafetyCarLikelihood = "low"
	SafetyCarMedium SafetyCarLikelihood = "medium"
	SafetyCarHigh   SafetyCarLikelihood = "high"
)

func (s SafetyCarLikelihood) Validate() error {
	switch s {
	case SafetyCarLow, SafetyCarMedium, SafetyCarHigh:
		return nil
	default:
		return fmt.Errorf("invalid safetyCar %q", string(s))
	}
}

const (
	MinRuns = 500
	MaxRuns = 20000
)

// RaceContext describes the track/weather/format conditions a simulation
// runs under.
type RaceContext struct {
	TrackProfile TrackProfile        `json:"trackProfile"`
	Weather      Weather             `json:"weather"`
	TyreStress   TyreStress          `json:"tyreStress"`
	SafetyCar    SafetyCarLikelihood `json:"safetyCar"`
	Runs         int                 `json:"runs"`
	Randomness   float64             `json:"randomness"`
	Seed         *int64              `json:"seed,omitempty"`

	// TemperatureC is an optional ambient-temperature reading carried with
	// the context for display and history. It does not feed the pace model.
	TemperatureC *float64 `json:"temperatureC,omitempty"`
}

// Validate rejects unknown enum values. Numeric fields are not checked
// here; Sanitize (below) clamps them instead.
func (c RaceContext) Validate() error {
	if err := c.TrackProfile.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.TyreStress.Validate(); err != nil {
		return err
	}
	if err := c.SafetyCar.Validate(); err != nil {
		return err
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sanitize clamps runs to [MinRuns, MaxRuns], randomness to [0,1], and the
// optional temperature to [-10,60], per the orchestrator's submission
// contract (spec §4.8.1, §8 clamp laws).
func (c RaceContext) Sanitize() RaceContext {
	c.Runs = clampInt(c.Runs, MinRuns, MaxRuns)
	c.Randomness = clampFloat(c.Randomness, 0, 1)
	if c.TemperatureC != nil {
		t := clampFloat(*c.TemperatureC, -10, 60)
		c.TemperatureC = &t
	}
	return c
}
