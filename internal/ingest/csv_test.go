package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCSV = `driver_name,team_name,grid_position,qualy_gap_ms,fp_longrun_pace_s,straightline_index,cornering_index,pit_crew_mean_s,dnf_rate,speed_trap_kph
Max Verstappen,Red Bull,1,0,-0.3,0.9,0.95,2.1,0.05,330
Lewis Hamilton,Mercedes,3,0.2,-0.1,0.8,0.9,2.3,0.08,325
`

func TestParse_ValidCSVProducesExpectedRows(t *testing.T) {
	rows, err := Parse(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Max Verstappen", rows[0].Name)
	assert.Equal(t, "Red Bull", rows[0].Team)
	assert.Equal(t, 1, rows[0].GridPosition)
	assert.Equal(t, "VER", rows[0].Code)
	assert.Equal(t, "max_verstappen", rows[0].ID)
	assert.InDelta(t, -0.3, rows[0].LongRunPaceDelta, 1e-9)
}

func TestParse_MissingRequiredColumnFails(t *testing.T) {
	bad := "driver_name,team_name,grid_position\nMax,RedBull,1\n"
	_, err := Parse(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestParse_EmptyDriverNameFails(t *testing.T) {
	bad := strings.Replace(validCSV, "Max Verstappen", "", 1)
	_, err := Parse(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestParse_EmptyStreamFails(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParse_NonNumericFieldsParseLeniently(t *testing.T) {
	bad := `driver_name,team_name,grid_position,qualy_gap_ms,fp_longrun_pace_s,straightline_index,cornering_index,pit_crew_mean_s,dnf_rate,speed_trap_kph
Max Verstappen,Red Bull,N/A,oops,-0.3,0.9,0.95,2.1,0.05,330
`
	rows, err := Parse(strings.NewReader(bad))
	require.NoError(t, err)
	assert.Equal(t, 0, rows[0].GridPosition)
	assert.Equal(t, 0.0, rows[0].QualyGapMs)
}

func TestWrite_EmitsHeaderAndRows(t *testing.T) {
	rows, err := Parse(strings.NewReader(validCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(RequiredHeaders, ","), lines[0])
}

func TestParseWriteRoundTrip_PreservesCoreFields(t *testing.T) {
	rows, err := Parse(strings.NewReader(validCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))

	roundTripped, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, roundTripped, len(rows))

	for i := range rows {
		assert.Equal(t, rows[i].Name, roundTripped[i].Name)
		assert.Equal(t, rows[i].GridPosition, roundTripped[i].GridPosition)
		assert.InDelta(t, rows[i].LongRunPaceDelta, roundTripped[i].LongRunPaceDelta, 1e-9)
	}
}

func TestDeriveCode_TruncatesToThreeUppercaseLetters(t *testing.T) {
	rows, err := Parse(strings.NewReader(`driver_name,team_name,grid_position,qualy_gap_ms,fp_longrun_pace_s,straightline_index,cornering_index,pit_crew_mean_s,dnf_rate,speed_trap_kph
Oscar Piastri,McLaren,4,0,0,0,0,0,0,0
`))
	require.NoError(t, err)
	assert.Equal(t, "PIA", rows[0].Code)
}
