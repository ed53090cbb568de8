package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDriver() DriverMetrics {
	return DriverMetrics{Code: "VER", GridPosition: 1}
}

func TestDriverMetrics_Validate_RejectsZeroGridPosition(t *testing.T) {
	d := validDriver()
	d.GridPosition = 0
	assert.Error(t, d.Validate())
}

func TestDriverMetrics_Validate_RejectsNaNField(t *testing.T) {
	d := validDriver()
	d.QualyGapMs = math.NaN()
	assert.Error(t, d.Validate())
}

func TestDriverMetrics_Validate_AcceptsWellFormedRow(t *testing.T) {
	assert.NoError(t, validDriver().Validate())
}

func TestEffectivePaceMultiplier_DefaultsToOne(t *testing.T) {
	d := validDriver()
	assert.Equal(t, 1.0, d.EffectivePaceMultiplier())
}

func TestEffectivePaceMultiplier_ReturnsSetValue(t *testing.T) {
	d := validDriver()
	d.PaceMultiplier = 1.3
	assert.Equal(t, 1.3, d.EffectivePaceMultiplier())
}

func TestValidateActiveSet_RejectsFewerThanTwoDrivers(t *testing.T) {
	err := ValidateActiveSet([]DriverMetrics{validDriver()})
	assert.Error(t, err)
}

func TestValidateActiveSet_RejectsIfAnyRowInvalid(t *testing.T) {
	bad := validDriver()
	bad.GridPosition = -1
	err := ValidateActiveSet([]DriverMetrics{validDriver(), bad})
	assert.Error(t, err)
}

func TestValidateActiveSet_AcceptsTwoValidDrivers(t *testing.T) {
	other := validDriver()
	other.Code = "HAM"
	other.GridPosition = 2
	assert.NoError(t, ValidateActiveSet([]DriverMetrics{validDriver(), other}))
}
