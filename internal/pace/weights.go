package pace

import "github.com/paddockml/racesim/internal/domain"

// ContextWeights are the context-derived multipliers computed once per
// simulation from RaceContext (spec §4.3 table).
type ContextWeights struct {
	WStr, WCor   float64
	WWet, WNoise float64
	TyreFactor   float64
	SCFactor     float64
}

func DeriveWeights(ctx domain.RaceContext) ContextWeights {
	w := ContextWeights{}

	switch ctx.TrackProfile {
	case domain.TrackPower:
		w.WStr, w.WCor = 1.25, 0.9
	case domain.TrackTechnical:
		w.WStr, w.WCor = 0.92, 1.25
	default: // balanced
		w.WStr, w.WCor = 1, 1
	}

	switch ctx.Weather {
	case domain.WeatherDry:
		w.WWet, w.WNoise = 0.85, 0.85
	case domain.WeatherWet:
		w.WWet, w.WNoise = 1.25, 1.2
	default: // mixed
		w.WWet, w.WNoise = 1, 1
	}

	switch ctx.TyreStress {
	case domain.TyreStressLow:
		w.TyreFactor = 0.92
	case domain.TyreStressHigh:
		w.TyreFactor = 1.12
	default: // medium
		w.TyreFactor = 1
	}

	switch ctx.SafetyCar {
	case domain.SafetyCarLow:
		w.SCFactor = 0.88
	case domain.SafetyCarHigh:
		w.SCFactor = 1.18
	default: // medium
		w.SCFactor = 1
	}

	return w
}
