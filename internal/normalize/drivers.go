package normalize

import "github.com/paddockml/racesim/internal/domain"

// DriverDescriptors holds one Descriptor per metric used by the pace
// scorer, computed once per active driver set.
type DriverDescriptors struct {
	LongRunPaceDelta  Descriptor
	QualyGapMs        Descriptor
	GridPosition      Descriptor
	StraightlineIndex Descriptor
	CorneringIndex    Descriptor
	PitStopMedian     Descriptor
	SpeedTrapKph      Descriptor
}

// BuildDriverDescriptors computes the full set of descriptors for drivers.
func BuildDriverDescriptors(drivers []domain.DriverMetrics) DriverDescriptors {
	n := len(drivers)
	longRun := make([]float64, n)
	qualy := make([]float64, n)
	grid := make([]float64, n)
	straight := make([]float64, n)
	corner := make([]float64, n)
	pit := make([]float64, n)
	trap := make([]float64, n)

	for i, d := range drivers {
		longRun[i] = d.LongRunPaceDelta
		qualy[i] = d.QualyGapMs
		grid[i] = float64(d.GridPosition)
		straight[i] = d.StraightlineIndex
		corner[i] = d.CorneringIndex
		pit[i] = d.PitStopMedian
		trap[i] = d.SpeedTrapKph
	}

	return DriverDescriptors{
		LongRunPaceDelta:  Describe(longRun),
		QualyGapMs:        Describe(qualy),
		GridPosition:      Describe(grid),
		StraightlineIndex: Describe(straight),
		CorneringIndex:    Describe(corner),
		PitStopMedian:     Describe(pit),
		SpeedTrapKph:      Describe(trap),
	}
}
