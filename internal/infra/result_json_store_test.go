package infra

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultJSONStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "results.json")

	results := []model.LeagueResult{
		{
			Country:    "Poland",
			LeagueName: "Ekstraklasa",
			Table: model.StandingsTable{
				model.NewStandingsRow([]string{"Team", "Matches", "Points"}, []string{"Górnik Zabrze", "10", "25"}),
				model.NewStandingsRow([]string{"Team", "Matches", "Points"}, []string{"Wisła Płock & Co", "10", "21"}),
			},
		},
		{Country: "England", LeagueName: "Premier League", Table: model.StandingsTable{}},
	}

	store := NewResultJSONStore()
	require.NoError(t, store.Save(ctx, path, results))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "Górnik Zabrze"), "non-ASCII must be written literally")
	assert.True(t, strings.Contains(string(raw), "Płock & Co"))
	assert.Less(t, strings.Index(string(raw), `"Team"`), strings.Index(string(raw), `"Points"`))

	loaded, err := store.Load(ctx, path)
	require.NoError(t, err)
	if diff := cmp.Diff(results, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestResultJSONStore_SaveEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.json")

	require.NoError(t, NewResultJSONStore().Save(ctx, path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}
