package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNavigator struct {
	visited []string
	fail    map[string]error
	cancel  context.CancelFunc
}

func (f *fakeNavigator) NavigateToLeague(ctx context.Context, leagueName string) error {
	f.visited = append(f.visited, leagueName)
	if f.cancel != nil {
		f.cancel()
	}
	return f.fail[leagueName]
}

type fakeTabs struct {
	err   error
	calls int
}

func (f *fakeTabs) Activate(ctx context.Context) (TabState, error) {
	f.calls++
	if f.err != nil {
		return TabInactive, f.err
	}
	return TabActive, nil
}

type fakeExtractor struct {
	table model.StandingsTable
}

func (f *fakeExtractor) Extract(ctx context.Context) (model.StandingsTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.table, nil
}

var walkerTable = model.StandingsTable{
	model.NewStandingsRow([]string{model.KeyTeam, model.KeyMatches, model.KeyPoints}, []string{"Arsenal", "38", "89"}),
}

func walkerLeagues() []model.LeagueDescriptor {
	return []model.LeagueDescriptor{
		{Country: "England", LeagueName: "Premier League"},
		{Country: "Nowhere", LeagueName: ""},
		{Country: "Poland", LeagueName: "Ekstraklasa"},
	}
}

func newTestWalker(t *testing.T, policy config.FailedLeaguePolicy, nav *fakeNavigator, tabs *fakeTabs, tabRequired bool) (*LeagueWalker, *fakePage) {
	t.Helper()
	page := newFakePage(t, "<html><body></body></html>")
	return NewLeagueWalker(LeagueWalkerArgs{
		Page:        page,
		BaseURL:     "https://www.flashscore.pl/",
		Policy:      policy,
		TabRequired: tabRequired,
		Navigator:   nav,
		Tabs:        tabs,
		Extractor:   &fakeExtractor{table: walkerTable},
		Logger:      discardLogger(),
	}), page
}

func TestLeagueWalker_RunCollectsInOrder(t *testing.T) {
	nav := &fakeNavigator{}
	walker, page := newTestWalker(t, config.FailedLeagueEmpty, nav, &fakeTabs{}, false)

	results, err := walker.Run(context.Background(), walkerLeagues())
	require.NoError(t, err)

	want := []model.LeagueResult{
		{Country: "England", LeagueName: "Premier League", Table: walkerTable},
		{Country: "Poland", LeagueName: "Ekstraklasa", Table: walkerTable},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("unexpected results (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"https://www.flashscore.pl/"}, page.navigated)
	assert.Equal(t, []string{"Premier League", "Ekstraklasa"}, nav.visited)

	runs := walker.Runs()
	require.Len(t, runs, 3)
	assert.Equal(t, model.LeagueRunStatusSuccess, runs[0].Status)
	assert.Equal(t, model.LeagueRunStatusSkipped, runs[1].Status)
	assert.Equal(t, 1, runs[2].Rows)
}

func TestLeagueWalker_FailedLeaguePolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy config.FailedLeaguePolicy
		want   []string
	}{
		{"empty keeps the league", config.FailedLeagueEmpty, []string{"Premier League", "Ekstraklasa"}},
		{"omit drops the league", config.FailedLeagueOmit, []string{"Ekstraklasa"}},
		{"unset behaves as empty", "", []string{"Premier League", "Ekstraklasa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &fakeNavigator{fail: map[string]error{"Premier League": errors.New("検索結果なし")}}
			walker, _ := newTestWalker(t, tt.policy, nav, &fakeTabs{}, false)

			results, err := walker.Run(context.Background(), walkerLeagues())
			require.NoError(t, err)

			var names []string
			for _, r := range results {
				names = append(names, r.LeagueName)
			}
			assert.Equal(t, tt.want, names)
			if tt.policy != config.FailedLeagueOmit {
				assert.NotNil(t, results[0].Table)
				assert.Empty(t, results[0].Table)
			}
			assert.Equal(t, model.LeagueRunStatusFailed, walker.Runs()[0].Status)
		})
	}
}

func TestLeagueWalker_TabFailure(t *testing.T) {
	tabErr := &model.TabNotFound{Tab: "standings"}

	t.Run("optional tab continues with extraction", func(t *testing.T) {
		walker, _ := newTestWalker(t, config.FailedLeagueOmit, &fakeNavigator{}, &fakeTabs{err: tabErr}, false)
		results, err := walker.Run(context.Background(), walkerLeagues())
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, walkerTable, results[0].Table)
	})

	t.Run("required tab fails the league", func(t *testing.T) {
		walker, _ := newTestWalker(t, config.FailedLeagueOmit, &fakeNavigator{}, &fakeTabs{err: tabErr}, true)
		results, err := walker.Run(context.Background(), walkerLeagues())
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestLeagueWalker_BaseNavigationFailureFailsEveryLeague(t *testing.T) {
	tests := []struct {
		name   string
		policy config.FailedLeaguePolicy
		want   []model.LeagueResult
	}{
		{
			name:   "empty policy keeps every league with an empty table",
			policy: config.FailedLeagueEmpty,
			want: []model.LeagueResult{
				{Country: "England", LeagueName: "Premier League", Table: model.StandingsTable{}},
				{Country: "Poland", LeagueName: "Ekstraklasa", Table: model.StandingsTable{}},
			},
		},
		{
			name:   "omit policy writes no results",
			policy: config.FailedLeagueOmit,
			want:   []model.LeagueResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &fakeNavigator{}
			walker, page := newTestWalker(t, tt.policy, nav, &fakeTabs{}, false)
			page.navigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

			results, err := walker.Run(context.Background(), walkerLeagues())
			require.NoError(t, err)
			assert.Empty(t, nav.visited)
			if diff := cmp.Diff(tt.want, results); diff != "" {
				t.Errorf("results mismatch (-want +got):\n%s", diff)
			}

			var statuses []model.LeagueRunStatus
			for _, run := range walker.Runs() {
				statuses = append(statuses, run.Status)
			}
			assert.Equal(t, []model.LeagueRunStatus{
				model.LeagueRunStatusFailed,
				model.LeagueRunStatusSkipped,
				model.LeagueRunStatusFailed,
			}, statuses)
			assert.Contains(t, walker.Runs()[0].Detail, "ERR_NAME_NOT_RESOLVED")
		})
	}
}

func TestLeagueWalker_StopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	nav := &fakeNavigator{cancel: cancel}
	walker, _ := newTestWalker(t, config.FailedLeagueEmpty, nav, &fakeTabs{}, false)

	_, err := walker.Run(ctx, walkerLeagues())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"Premier League"}, nav.visited)
}
