package model

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandingsRow_MarshalJSONKeepsOrderAndUnicode(t *testing.T) {
	row := StandingsRow{
		{Key: KeyTeam, Value: "Górnik Zabrze & Co"},
		{Key: KeyMatches, Value: "10"},
		{Key: KeyPoints, Value: "25"},
	}

	b, err := row.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"Team":"Górnik Zabrze & Co","Matches":"10","Points":"25"}`, string(b))
}

func TestStandingsRow_UnmarshalJSONKeepsOrder(t *testing.T) {
	var row StandingsRow
	err := sonic.Unmarshal([]byte(`{"Points":"25","Team":"G\u00f3rnik \"Z\"","Rank":3,"Empty":null}`), &row)
	require.NoError(t, err)

	want := StandingsRow{
		{Key: "Points", Value: "25"},
		{Key: "Team", Value: `Górnik "Z"`},
		{Key: "Rank", Value: "3"},
		{Key: "Empty", Value: ""},
	}
	if diff := cmp.Diff(want, row); diff != "" {
		t.Fatalf("unexpected row (-want +got):\n%s", diff)
	}
}

func TestStandingsRow_UnmarshalJSONRejectsArray(t *testing.T) {
	var row StandingsRow
	err := sonic.Unmarshal([]byte(`["a"]`), &row)
	assert.Error(t, err)
}

func TestStandingsTable_NormalizeGivesIdenticalKeySets(t *testing.T) {
	table := StandingsTable{
		NewStandingsRow([]string{"A", "B"}, []string{"1", "2"}),
		NewStandingsRow([]string{"A", "B", "C"}, []string{"3", "4", "5"}),
	}

	columns := table.Columns()
	assert.Equal(t, []string{"A", "B", "C"}, columns)

	normalized := table.Normalize(columns)
	for _, row := range normalized {
		assert.Equal(t, columns, row.Keys())
	}
	v, _ := normalized[0].Get("C")
	assert.Equal(t, "", v)
}

func TestStandingsTable_NilMarshalsAsEmptyArray(t *testing.T) {
	b, err := sonic.Marshal(LeagueResult{LeagueName: "Ekstraklasa"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"country":"","leagueName":"Ekstraklasa","table":[]}`, string(b))
}

func TestLeagueDescriptor_IsBlank(t *testing.T) {
	assert.True(t, LeagueDescriptor{Country: "Nowhere"}.IsBlank())
	assert.False(t, LeagueDescriptor{LeagueName: "  "}.IsBlank())
	assert.False(t, LeagueDescriptor{LeagueName: "Ekstraklasa"}.IsBlank())
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "Serie A Betting", SafeFileName(`Serie A: Bet\ting/`))
}

func TestNewCurrentWeatherFromFahrenheit(t *testing.T) {
	cw := NewCurrentWeatherFromFahrenheit(mustTime(t, "2025-10-01T12:15:00Z"), 64.4)

	assert.Equal(t, 18.0, cw.TemperatureCelsius)
	assert.Equal(t, 64.4, cw.TemperatureFahrenheit)
	assert.Equal(t, "2025-10-01T12:15:00+00:00", cw.TimeUTC)
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestLeagueRun_Status(t *testing.T) {
	d := LeagueDescriptor{Country: "Poland", LeagueName: "Ekstraklasa"}

	assert.Equal(t, LeagueRunStatusSuccess, NewLeagueRun(d).Complete(18).Status)
	assert.Equal(t, LeagueRunStatusEmpty, NewLeagueRun(d).Complete(0).Status)

	failed := NewLeagueRun(d).Fail(&TabNotFound{Tab: "standings"})
	assert.Equal(t, LeagueRunStatusFailed, failed.Status)
	assert.Contains(t, failed.Detail, "standings")

	a, b := NewLeagueRun(d), NewLeagueRun(d)
	assert.NotEqual(t, a.ID, b.ID)
}
