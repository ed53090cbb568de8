package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paddockml/racesim/internal/domain"
)

func baseDrivers() []domain.DriverMetrics {
	return []domain.DriverMetrics{
		{Code: "VER", Team: "Red Bull", GridPosition: 3, DNFRate: 0.1},
		{Code: "HAM", Team: "Mercedes", GridPosition: 5, DNFRate: 0.1},
	}
}

func TestApply_DoesNotMutateInputSlice(t *testing.T) {
	drivers := baseDrivers()
	factors := []domain.VariationFactor{
		{ImpactType: domain.ImpactPace, Magnitude: 1, Enabled: true},
	}
	Apply(drivers, domain.RaceContext{}, factors)
	assert.Equal(t, 0.0, drivers[0].PaceMultiplier)
}

func TestApply_DisabledFactorHasNoEffect(t *testing.T) {
	drivers := baseDrivers()
	factors := []domain.VariationFactor{
		{ImpactType: domain.ImpactPace, Magnitude: 1, Enabled: false},
	}
	out, _ := Apply(drivers, domain.RaceContext{}, factors)
	assert.Equal(t, 0.0, out[0].PaceMultiplier)
}

func TestApply_PaceFactorRaisesMultiplierWithPositiveMagnitude(t *testing.T) {
	drivers := baseDrivers()
	factors := []domain.VariationFactor{
		{ImpactType: domain.ImpactPace, Magnitude: 1, Enabled: true,
			Targets: []domain.FactorTarget{{Type: domain.TargetDriver, ID: "VER"}}},
	}
	out, _ := Apply(drivers, domain.RaceContext{}, factors)
	assert.Greater(t, out[0].EffectivePaceMultiplier(), 1.0)
	assert.Equal(t, 0.0, out[1].PaceMultiplier)
}

func TestApply_ReliabilityNegativeMagnitudeIncreasesDNFRate(t *testing.T) {
	drivers := baseDrivers()
	factors := []domain.VariationFactor{
		{ImpactType: domain.ImpactReliability, Magnitude: -1, Enabled: true},
	}
	out, _ := Apply(drivers, domain.RaceContext{}, factors)
	assert.Greater(t, out[0].DNFRate, drivers[0].DNFRate)
}

func TestApply_ReliabilityPositiveMagnitudeDecreasesDNFRate(t *testing.T) {
	drivers := baseDrivers()
	factors := []domain.VariationFactor{
		{ImpactType: domain.ImpactReliability, Magnitude: 1, Enabled: true},
	}
	out, _ := Apply(drivers, domain.RaceContext{}, factors)
	assert.Less(t, out[0].DNFRate, drivers[0].DNFRate)
}

func TestApply_QualifyingFactorMovesGridPositionAndClampsAtOne(t *testing.T) {
	drivers := baseDrivers()
	factors := []domain.VariationFactor{
		{ImpactType: domain.ImpactQualifying, Magnitude: 1, Enabled: true,
			Targets: []domain.FactorTarget{{Type: domain.TargetDriver, ID: "VER"}}},
	}
	out, _ := Apply(drivers, domain.RaceContext{}, factors)
	assert.Less(t, out[0].GridPosition, drivers[0].GridPosition)

	bigMove := []domain.VariationFactor{
		{ImpactType: domain.ImpactQualifying, Magnitude: 1, Enabled: true,
			Targets: []domain.FactorTarget{{Type: domain.TargetDriver, ID: "HAM"}}},
	}
	out2, _ := Apply([]domain.DriverMetrics{{Code: "HAM", GridPosition: 1}}, domain.RaceContext{}, bigMove)
	assert.Equal(t, 1, out2[0].GridPosition)
}

func TestApply_StrategyFactorShiftsContextRandomness(t *testing.T) {
	drivers := baseDrivers()
	factors := []domain.VariationFactor{
		{ImpactType: domain.ImpactStrategy, Magnitude: 1, Enabled: true},
	}
	_, ctx := Apply(drivers, domain.RaceContext{Randomness: 0.5}, factors)
	assert.Greater(t, ctx.Randomness, 0.5)
}

func TestApply_ContextRandomnessClampedToUnitInterval(t *testing.T) {
	drivers := baseDrivers()
	factors := []domain.VariationFactor{
		{ImpactType: domain.ImpactStrategy, Magnitude: 1, Enabled: true},
		{ImpactType: domain.ImpactStrategy, Magnitude: 1, Enabled: true},
		{ImpactType: domain.ImpactStrategy, Magnitude: 1, Enabled: true},
		{ImpactType: domain.ImpactStrategy, Magnitude: 1, Enabled: true},
		{ImpactType: domain.ImpactStrategy, Magnitude: 1, Enabled: true},
		{ImpactType: domain.ImpactStrategy, Magnitude: 1, Enabled: true},
		{ImpactType: domain.ImpactStrategy, Magnitude: 1, Enabled: true},
	}
	_, ctx := Apply(drivers, domain.RaceContext{Randomness: 0.9}, factors)
	assert.LessOrEqual(t, ctx.Randomness, 1.0)
}

func TestApply_NonMatchingTargetIsUnaffected(t *testing.T) {
	drivers := baseDrivers()
	factors := []domain.VariationFactor{
		{ImpactType: domain.ImpactPace, Magnitude: 1, Enabled: true,
			Targets: []domain.FactorTarget{{Type: domain.TargetDriver, ID: "NOBODY"}}},
	}
	out, _ := Apply(drivers, domain.RaceContext{}, factors)
	assert.Equal(t, 1.0, out[0].EffectivePaceMultiplier())
	assert.Equal(t, 1.0, out[1].EffectivePaceMultiplier())
}

func TestApply_TeamTargetMatchesBySubstring(t *testing.T) {
	drivers := baseDrivers()
	factors := []domain.VariationFactor{
		{ImpactType: domain.ImpactPace, Magnitude: 1, Enabled: true,
			Targets: []domain.FactorTarget{{Type: domain.TargetTeam, ID: "red bull"}}},
	}
	out, _ := Apply(drivers, domain.RaceContext{}, factors)
	assert.Greater(t, out[0].EffectivePaceMultiplier(), 1.0)
	assert.Equal(t, 1.0, out[1].EffectivePaceMultiplier())
}
