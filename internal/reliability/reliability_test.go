package reliability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paddockml/racesim/internal/domain"
)

func baseContext() domain.RaceContext {
	return domain.RaceContext{
		Weather:    domain.WeatherDry,
		TyreStress: domain.TyreStressMedium,
		SafetyCar:  domain.SafetyCarLow,
	}
}

func TestAmplifier_Baseline(t *testing.T) {
	assert.Equal(t, 1.0, Amplifier(baseContext()))
}

func TestAmplifier_WetWeatherRaisesDNFOdds(t *testing.T) {
	ctx := baseContext()
	ctx.Weather = domain.WeatherWet
	assert.Greater(t, Amplifier(ctx), Amplifier(baseContext()))
}

func TestAmplifier_HighTyreStressRaisesDNFOdds(t *testing.T) {
	ctx := baseContext()
	ctx.TyreStress = domain.TyreStressHigh
	assert.Greater(t, Amplifier(ctx), Amplifier(baseContext()))
}

func TestAmplifier_SafetyCarLevelsStack(t *testing.T) {
	low := baseContext()
	low.SafetyCar = domain.SafetyCarLow
	medium := baseContext()
	medium.SafetyCar = domain.SafetyCarMedium
	high := baseContext()
	high.SafetyCar = domain.SafetyCarHigh

	assert.Less(t, Amplifier(low), Amplifier(medium))
	assert.Less(t, Amplifier(medium), Amplifier(high))
}

func TestBaseReliability_ClampsToLowerBound(t *testing.T) {
	assert.Equal(t, 0.04, BaseReliability(1.0, 2.0))
}

func TestBaseReliability_ClampsToUpperBound(t *testing.T) {
	assert.Equal(t, 0.98, BaseReliability(0.0, 1.0))
}

func TestBaseReliability_MidRange(t *testing.T) {
	assert.InDelta(t, 0.9, BaseReliability(0.1, 1.0), 1e-9)
}

func TestFinishes_BelowThresholdFinishes(t *testing.T) {
	assert.True(t, Finishes(0.5, 0.9))
	assert.False(t, Finishes(0.95, 0.9))
}
