package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationSummary_Finalize_EmptyResultsLeavesNilPredictions(t *testing.T) {
	s := SimulationSummary{}
	s.Finalize()
	assert.Nil(t, s.PredictedWinner)
	assert.Nil(t, s.PredictedPodium)
}

func TestSimulationSummary_Finalize_PopulatesWinnerAndPodium(t *testing.T) {
	s := SimulationSummary{
		Results: []DriverResult{
			{Code: "VER"},
			{Code: "HAM"},
			{Code: "PER"},
			{Code: "RUS"},
		},
	}
	s.Finalize()

	require.NotNil(t, s.PredictedWinner)
	assert.Equal(t, "VER", s.PredictedWinner.Code)
	require.Len(t, s.PredictedPodium, 3)
	assert.Equal(t, "PER", s.PredictedPodium[2].Code)
}

func TestSimulationSummary_Finalize_FewerThanThreeResultsUsesAll(t *testing.T) {
	s := SimulationSummary{
		Results: []DriverResult{{Code: "VER"}, {Code: "HAM"}},
	}
	s.Finalize()
	assert.Len(t, s.PredictedPodium, 2)
}

func TestSimulationSummary_Finalize_PodiumIsACopyNotAlias(t *testing.T) {
	s := SimulationSummary{
		Results: []DriverResult{{Code: "VER"}, {Code: "HAM"}, {Code: "PER"}},
	}
	s.Finalize()
	s.PredictedPodium[0].Code = "MUTATED"
	assert.Equal(t, "VER", s.Results[0].Code)
}
