// Package ingest implements the CSV Driver Ingest (spec §4.9, C9): parsing
// and validating a driver metrics table, and re-serialising it for export.
//
// encoding/csv is used directly, matching the teacher's own tabular export
// path (backend.deprecated/internal/services/export.go) — no third-party
// CSV library appears anywhere in the retrieved pack.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paddockml/racesim/internal/domain"
)

// RequiredHeaders lists the exact, lowercase snake_case columns a driver
// CSV must contain (spec §4.9).
var RequiredHeaders = []string{
	"driver_name", "team_name", "grid_position", "qualy_gap_ms",
	"fp_longrun_pace_s", "straightline_index", "cornering_index",
	"pit_crew_mean_s", "dnf_rate", "speed_trap_kph",
}

// defaultSkillModifiers are applied to every parsed row, since the CSV
// schema never carries them (spec §4.9).
const (
	defaultWetSkill       = 0.8
	defaultConsistency    = 0.8
	defaultTyreManagement = 0.8
	defaultAggression     = 0.6
	defaultExperience     = 0.5
)

// Parse reads a UTF-8 CSV stream into a DriverMetrics slice, validating
// headers and per-row data per spec §4.9.
func Parse(r io.Reader) ([]domain.DriverMetrics, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, domain.NewValidationError("csv has no header row")
		}
		return nil, domain.NewValidationError(fmt.Sprintf("failed to read csv header: %v", err))
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, required := range RequiredHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(fmt.Sprintf("csv missing required columns: %s", strings.Join(missing, ", ")))
	}

	var rows []domain.DriverMetrics
	rowNum := 1 // header is row 0; data rows are 1-based per spec §4.9
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("csv parse error at row %d: %v", rowNum, err))
		}

		name := strings.TrimSpace(rec[index["driver_name"]])
		if name == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("row %d: driver_name is empty", rowNum))
		}

		row := domain.DriverMetrics{
			Name:              name,
			Team:              strings.TrimSpace(rec[index["team_name"]]),
			GridPosition:      parseIntLenient(rec[index["grid_position"]]),
			QualyGapMs:        parseFloatLenient(rec[index["qualy_gap_ms"]]),
			LongRunPaceDelta:  parseFloatLenient(rec[index["fp_longrun_pace_s"]]),
			StraightlineIndex: parseFloatLenient(rec[index["straightline_index"]]),
			CorneringIndex:    parseFloatLenient(rec[index["cornering_index"]]),
			PitStopMedian:     parseFloatLenient(rec[index["pit_crew_mean_s"]]),
			DNFRate:           parseFloatLenient(rec[index["dnf_rate"]]),
			SpeedTrapKph:      parseFloatLenient(rec[index["speed_trap_kph"]]),
			WetSkill:          defaultWetSkill,
			Consistency:       defaultConsistency,
			TyreManagement:    defaultTyreManagement,
			Aggression:        defaultAggression,
			Experience:        defaultExperience,
		}
		row.ID = deriveID(name)
		row.Code = deriveCode(name)

		rows = append(rows, row)
		rowNum++
	}

	return rows, nil
}

// parseFloatLenient parses a strict decimal number; any non-parseable value
// becomes 0 (spec §4.9: "a stricter mode may be added" later).
func parseFloatLenient(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseIntLenient(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func deriveID(name string) string {
	lower := strings.ToLower(name)
	fields := strings.Fields(lower)
	return strings.Join(fields, "_")
}

func deriveCode(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	last := strings.ToUpper(fields[len(fields)-1])
	if len(last) > 3 {
		last = last[:3]
	}
	return last
}
