package pace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paddockml/racesim/internal/domain"
	"github.com/paddockml/racesim/internal/normalize"
)

func balancedContext() domain.RaceContext {
	return domain.RaceContext{
		TrackProfile: domain.TrackBalanced,
		Weather:      domain.WeatherDry,
		TyreStress:   domain.TyreStressMedium,
		SafetyCar:    domain.SafetyCarMedium,
		Randomness:   0.5,
	}
}

func TestDeriveWeights_Balanced(t *testing.T) {
	w := DeriveWeights(balancedContext())
	assert.Equal(t, 1.0, w.WStr)
	assert.Equal(t, 1.0, w.WCor)
	assert.Equal(t, 1.0, w.TyreFactor)
	assert.Equal(t, 1.0, w.SCFactor)
}

func TestDeriveWeights_PowerTrackFavoursStraights(t *testing.T) {
	ctx := balancedContext()
	ctx.TrackProfile = domain.TrackPower
	w := DeriveWeights(ctx)
	assert.Greater(t, w.WStr, w.WCor)
}

func TestDeriveWeights_TechnicalTrackFavoursCornering(t *testing.T) {
	ctx := balancedContext()
	ctx.TrackProfile = domain.TrackTechnical
	w := DeriveWeights(ctx)
	assert.Greater(t, w.WCor, w.WStr)
}

func TestDeriveWeights_WetWeatherRaisesNoiseAndWetSkill(t *testing.T) {
	dry := DeriveWeights(balancedContext())
	ctx := balancedContext()
	ctx.Weather = domain.WeatherWet
	wet := DeriveWeights(ctx)
	assert.Greater(t, wet.WNoise, dry.WNoise)
	assert.Greater(t, wet.WWet, dry.WWet)
}

func TestDeriveWeights_SafetyCarHighRaisesSCFactor(t *testing.T) {
	low := balancedContext()
	low.SafetyCar = domain.SafetyCarLow
	high := balancedContext()
	high.SafetyCar = domain.SafetyCarHigh
	assert.Greater(t, DeriveWeights(high).SCFactor, DeriveWeights(low).SCFactor)
}

func sampleDriver() domain.DriverMetrics {
	return domain.DriverMetrics{
		Code:              "VER",
		GridPosition:      1,
		QualyGapMs:        0,
		LongRunPaceDelta:  -0.3,
		StraightlineIndex: 0.9,
		CorneringIndex:    0.9,
		PitStopMedian:     2.1,
		SpeedTrapKph:      330,
		Consistency:       0.8,
		Aggression:        0.5,
		TyreManagement:    0.7,
		WetSkill:          0.6,
	}
}

func sampleDescriptors() normalize.DriverDescriptors {
	return normalize.BuildDriverDescriptors([]domain.DriverMetrics{
		sampleDriver(),
		{
			Code: "HAM", GridPosition: 5, QualyGapMs: 0.4,
			LongRunPaceDelta: 0.2, StraightlineIndex: 0.8, CorneringIndex: 0.82,
			PitStopMedian: 2.5, SpeedTrapKph: 320, Consistency: 0.6,
		},
	})
}

func TestBase_PaceMultiplierScalesLinearly(t *testing.T) {
	d := sampleDriver()
	desc := sampleDescriptors()
	w := DeriveWeights(balancedContext())

	neutral := Base(d, desc, w, normalize.Linear)

	d.PaceMultiplier = 1.5
	boosted := Base(d, desc, w, normalize.Linear)

	assert.InDelta(t, neutral*1.5, boosted, 1e-9)
}

func TestBase_ZeroPaceMultiplierTreatedAsOne(t *testing.T) {
	d := sampleDriver()
	desc := sampleDescriptors()
	w := DeriveWeights(balancedContext())

	withZero := Base(d, desc, w, normalize.Linear)
	d.PaceMultiplier = 1
	withOne := Base(d, desc, w, normalize.Linear)

	assert.InDelta(t, withZero, withOne, 1e-9)
}

func TestNoiseSigma_IncreasesWithRandomness(t *testing.T) {
	w := ContextWeights{WNoise: 1, SCFactor: 1}
	low := NoiseSigma(0.0, w)
	high := NoiseSigma(1.0, w)
	assert.Greater(t, high, low)
}

func TestFinishedScore_AddsNoise(t *testing.T) {
	assert.InDelta(t, 1.5, FinishedScore(1.0, 0.5), 1e-9)
	assert.InDelta(t, 0.5, FinishedScore(1.0, -0.5), 1e-9)
}

func TestDNFScore_WellBelowFinishedRange(t *testing.T) {
	score := DNFScore(0)
	assert.Equal(t, -5.0, score)
	assert.Less(t, score, FinishedScore(0, 0))
}
