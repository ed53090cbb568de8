package ingest

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/paddockml/racesim/internal/domain"
)

// Write re-serialises the active driver columns to w as UTF-8 CSV with LF
// line endings and no BOM (spec §6 exported CSV contract). This is the
// export counterpart to Parse: parsing a valid CSV then writing it back
// yields an equivalent table, modulo number formatting.
func Write(w io.Writer, drivers []domain.DriverMetrics) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = false

	if err := writer.Write(RequiredHeaders); err != nil {
		return err
	}

	for _, d := range drivers {
		record := []string{
			d.Name,
			d.Team,
			strconv.Itoa(d.GridPosition),
			formatFloat(d.QualyGapMs),
			formatFloat(d.LongRunPaceDelta),
			formatFloat(d.StraightlineIndex),
			formatFloat(d.CorneringIndex),
			formatFloat(d.PitStopMedian),
			formatFloat(d.DNFRate),
			formatFloat(d.SpeedTrapKph),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
