package infra

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func floatPtr(v float64) *float64 { return &v }

func TestLeagueFileLoader_Load(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []model.LeagueDescriptor
	}{
		{
			name: "配列そのもの",
			body: `[{"country":"Poland","leagueName":"Ekstraklasa","latitude":52.23,"longitude":21.01}]`,
			want: []model.LeagueDescriptor{
				{Country: "Poland", LeagueName: "Ekstraklasa", Latitude: floatPtr(52.23), Longitude: floatPtr(21.01)},
			},
		},
		{
			name: "既知のキー",
			body: `{"other":[{"leagueName":"X"}],"footballFixturesAutomationInput":[{"country":"England","leagueName":"Premier League"}]}`,
			want: []model.LeagueDescriptor{{Country: "England", LeagueName: "Premier League"}},
		},
		{
			name: "最初の値",
			body: `{"zeta":[{"leagueName":"Serie A"}],"alpha":[{"leagueName":"LaLiga"}]}`,
			want: []model.LeagueDescriptor{{LeagueName: "Serie A"}},
		},
		{
			name: "nullの要素",
			body: `[null,{"leagueName":"Ligue 1"}]`,
			want: []model.LeagueDescriptor{{}, {LeagueName: "Ligue 1"}},
		},
		{
			name: "空の配列",
			body: `[]`,
			want: []model.LeagueDescriptor{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewLeagueFileLoader().Load(writeInput(t, tt.body))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected leagues (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLeagueFileLoader_InputFormatError(t *testing.T) {
	for _, body := range []string{
		`{"footballFixturesAutomationInput":{"leagueName":"X"}}`,
		`{"a":"b"}`,
		`{}`,
		`"leagues"`,
		`[{"leagueName":`,
		`["Ekstraklasa"]`,
	} {
		t.Run(body, func(t *testing.T) {
			_, err := NewLeagueFileLoader().Load(writeInput(t, body))
			var formatErr *model.InputFormatError
			assert.True(t, errors.As(err, &formatErr), "got %v", err)
		})
	}
}

func TestLeagueFileLoader_MissingFile(t *testing.T) {
	_, err := NewLeagueFileLoader().Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
