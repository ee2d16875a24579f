package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/f1dash/internal/model"
)

var sampleFiles = map[string]string{
	RacesFile: `raceId,year,round,circuitId,name,date,time,url
1009,2018,21,24,"Abu Dhabi Grand Prix",2018-11-25,13:10:00,http://example.com
1010,2019,1,1,"Australian Grand Prix",2019-03-17,05:10:00,\N
`,
	ResultsFile: `resultId,raceId,driverId,constructorId,number,grid,position,positionText,positionOrder,points,laps,time,milliseconds,fastestLap,rank,fastestLapTime,fastestLapSpeed,statusId
1,1010,1,131,44,1,2,2,2,18,58,+20.886,5147879,57,2,1:26.057,221.861,1
2,1010,20,6,5,0,\N,R,18,0,22,\N,\N,\N,\N,\N,\N,4
`,
	DriversFile: `driverId,driverRef,number,code,forename,surname,dob,nationality,url
1,hamilton,44,HAM,Lewis,Hamilton,1985-01-07,British,http://example.com
20,vettel,5,\N,Sebastian,Vettel,1987-07-03,German,http://example.com
`,
	CircuitsFile: `circuitId,circuitRef,name,location,country,lat,lng,alt,url
1,albert_park,"Albert Park Grand Prix Circuit","Melbourne",Australia,-37.8497,144.968,10,http://example.com
`,
	DriverStandingsFile: `driverStandingsId,raceId,driverId,points,position,positionText,wins
1,1010,1,18,2,2,0
`,
	PitStopsFile: `raceId,driverId,stop,lap,time,duration,milliseconds
1010,1,1,15,16:35:17,21.514,21514
`,
	StatusFile: `statusId,status
1,Finished
4,Collision
`,
}

func writeDataset(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func withFile(name, content string) map[string]string {
	out := make(map[string]string, len(sampleFiles))
	for k, v := range sampleFiles {
		out[k] = v
	}
	out[name] = content
	return out
}

func TestLoadParsesEveryTable(t *testing.T) {
	dir := writeDataset(t, sampleFiles)

	tables, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, tables.Races, 2)
	assert.Len(t, tables.Results, 2)
	assert.Len(t, tables.Drivers, 2)
	assert.Len(t, tables.Circuits, 1)
	assert.Len(t, tables.DriverStandings, 1)
	assert.Len(t, tables.PitStops, 1)
	assert.Len(t, tables.Statuses, 2)

	assert.Equal(t, model.Race{ID: 1010, Year: 2019, Round: 1, CircuitID: 1, Name: "Australian Grand Prix"}, tables.Races[1])
	assert.Equal(t, model.Circuit{ID: 1, Name: "Albert Park Grand Prix Circuit", Location: "Melbourne", Country: "Australia", Lat: -37.8497, Lng: 144.968}, tables.Circuits[0])
	assert.Equal(t, model.PitStop{RaceID: 1010, DriverID: 1, Stop: 1, Lap: 15, Time: "16:35:17", DurationMs: 21514}, tables.PitStops[0])
	assert.Equal(t, "Collision", tables.Statuses[1].Label)
}

func TestLoadTreatsNullAsAbsent(t *testing.T) {
	tables, err := Load(context.Background(), writeDataset(t, sampleFiles))
	require.NoError(t, err)

	ham := tables.Results[0]
	assert.True(t, ham.FastestLapSpeed.Valid)
	assert.Equal(t, 221.861, ham.FastestLapSpeed.Float64)
	assert.Equal(t, "1:26.057", ham.FastestLapTime)
	assert.Equal(t, 2, ham.FastestLapRank)

	vet := tables.Results[1]
	assert.False(t, vet.FastestLapSpeed.Valid)
	assert.Empty(t, vet.FastestLapTime)
	assert.Zero(t, vet.FastestLapRank)
	assert.True(t, vet.PitLaneStart())
	assert.Equal(t, 18, vet.PositionOrder)
	assert.Equal(t, model.StatusID(4), vet.StatusID)

	assert.Empty(t, tables.Drivers[1].Code)
	assert.Equal(t, "VET", tables.Drivers[1].DisplayCode())
}

func TestLoadMissingColumn(t *testing.T) {
	dir := writeDataset(t, withFile(StatusFile, "statusId,label\n1,Finished\n"))

	tables, err := Load(context.Background(), dir)
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), StatusFile)
	assert.Empty(t, tables.Races)
}

func TestLoadMissingFile(t *testing.T) {
	dir := writeDataset(t, sampleFiles)
	require.NoError(t, os.Remove(filepath.Join(dir, PitStopsFile)))

	_, err := Load(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidNumber(t *testing.T) {
	dir := writeDataset(t, withFile(DriverStandingsFile, "driverStandingsId,raceId,driverId,points,position,positionText,wins\n1,1010,1,eighteen,2,2,0\n"))

	_, err := Load(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "line 2"), err.Error())
	assert.Contains(t, err.Error(), "points")
}

func TestLoadRejectsNullInRequiredColumn(t *testing.T) {
	results := `resultId,raceId,driverId,constructorId,number,grid,position,positionText,positionOrder,points,laps,time,milliseconds,fastestLap,rank,fastestLapTime,fastestLapSpeed,statusId
1,1010,1,131,44,1,2,2,2,18,58,+20.886,5147879,57,2,1:26.057,221.861,1
2,1010,20,6,5,3,\N,R,\N,0,22,\N,\N,\N,\N,\N,\N,4
`
	_, err := Load(context.Background(), writeDataset(t, withFile(ResultsFile, results)))
	require.ErrorIs(t, err, ErrMissingValue)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "positionOrder")
	assert.Contains(t, err.Error(), ResultsFile)
}

func TestLoadRejectsEmptyDecimal(t *testing.T) {
	dir := writeDataset(t, withFile(CircuitsFile, "circuitId,circuitRef,name,location,country,lat,lng,alt,url\n1,albert_park,Albert Park,Melbourne,Australia,,144.968,10,\\N\n"))

	_, err := Load(context.Background(), dir)
	require.ErrorIs(t, err, ErrMissingValue)
	assert.Contains(t, err.Error(), "lat")
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := Load(context.Background(), writeDataset(t, withFile(RacesFile, "")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty file")
}

func TestLoadRequiresDirectory(t *testing.T) {
	_, err := Load(context.Background(), "")
	assert.Error(t, err)
}
