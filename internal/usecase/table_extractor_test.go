package usecase

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standingsBody = `
  <div class="ui-table__header">
    <div class="ui-table__headerCell" title="Rank">#</div>
    <div class="ui-table__headerCell" title="Team">Team</div>
    <div class="ui-table__headerCell" title="Matches Played">MP</div>
    <div class="ui-table__headerCell">W</div>
    <div class="ui-table__headerCell" title="Points">PTS</div>
    <div class="ui-table__headerCell"></div>
  </div>
  <div class="ui-table__body">
    <div class="ui-table__row">
      <div class="table__cell ui-table__cell">1.</div>
      <div class="table__cell ui-table__cell"><a class="tableCellParticipant__name">Lech  Poznań</a></div>
      <div class="table__cell ui-table__cell">10</div>
      <div class="table__cell ui-table__cell">7</div>
      <div class="table__cell ui-table__cell">23</div>
      <div class="table__cell ui-table__cell"></div>
    </div>
    <div class="ui-table__row">
      <div class="table__cell ui-table__cell">2.</div>
      <div class="table__cell ui-table__cell"><a class="tableCellParticipant__name">Raków Częstochowa</a></div>
      <div class="table__cell ui-table__cell">10</div>
      <div class="table__cell ui-table__cell">6</div>
      <div class="table__cell ui-table__cell">20</div>
      <div class="table__cell ui-table__cell"></div>
    </div>
    <div class="ui-table__row">
      <div class="table__cell ui-table__cell">-</div>
      <div class="table__cell ui-table__cell"><a class="tableCellParticipant__name"> </a></div>
    </div>
    <div class="ui-table__row">
      <div class="table__cell ui-table__cell">3.</div>
      <div class="table__cell ui-table__cell"><a class="tableCellParticipant__name">Legia Warszawa</a></div>
      <div class="table__cell ui-table__cell">9</div>
    </div>
  </div>`

const standingsFixture = `<html><body><div id="tournament-table"><div class="ui-table">` + standingsBody + `</div></div></body></html>`

func newTestExtractor(t *testing.T, page infra.Page, mode config.ExtractionMode) *TableExtractor {
	t.Helper()
	extractor, err := NewTableExtractorFromConfig(
		page,
		NewSelectorResolver(page, discardLogger()),
		testTableConfig(),
		config.ExtractionConfig{Mode: mode, MatchesIndex: 2, PointsIndex: 4},
		discardLogger(),
	)
	require.NoError(t, err)
	return extractor
}

func TestTableExtractor_Positional(t *testing.T) {
	page := newFakePage(t, standingsFixture)

	table, err := newTestExtractor(t, page, config.ExtractPositional).Extract(context.Background())
	require.NoError(t, err)

	keys := []string{model.KeyTeam, model.KeyMatches, model.KeyPoints}
	want := model.StandingsTable{
		model.NewStandingsRow(keys, []string{"Lech Poznań", "10", "23"}),
		model.NewStandingsRow(keys, []string{"Raków Częstochowa", "10", "20"}),
		model.NewStandingsRow(keys, []string{"Legia Warszawa", "9", ""}),
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("unexpected table (-want +got):\n%s", diff)
	}
	assert.Empty(t, page.clicks)
}

func TestTableExtractor_Header(t *testing.T) {
	page := newFakePage(t, standingsFixture)

	table, err := newTestExtractor(t, page, config.ExtractHeader).Extract(context.Background())
	require.NoError(t, err)

	keys := []string{"Rank", "Team", "Matches Played", "W", "Points"}
	want := model.StandingsTable{
		model.NewStandingsRow(keys, []string{"1.", "Lech Poznań", "10", "7", "23"}),
		model.NewStandingsRow(keys, []string{"2.", "Raków Częstochowa", "10", "6", "20"}),
		model.NewStandingsRow(keys, []string{"3.", "Legia Warszawa", "9", "", ""}),
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("unexpected table (-want +got):\n%s", diff)
	}
	for _, row := range table {
		assert.Equal(t, keys, row.Keys())
	}
}

func TestTableExtractor_HeaderWidensColumns(t *testing.T) {
	html := `<html><body><div class="ui-table">
	  <div class="ui-table__header"><div class="ui-table__headerCell">Team</div><div class="ui-table__headerCell">Team</div></div>
	  <div class="ui-table__row">
	    <div class="ui-table__cell"><span class="tableCellParticipant__name">Arsenal</span></div>
	    <div class="ui-table__cell">38</div>
	    <div class="ui-table__cell">89</div>
	  </div>
	</div></body></html>`
	page := newFakePage(t, html)

	table, err := newTestExtractor(t, page, config.ExtractHeader).Extract(context.Background())
	require.NoError(t, err)

	want := model.StandingsTable{
		model.NewStandingsRow([]string{"Team", "Team_2", "Col3"}, []string{"Arsenal", "38", "89"}),
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("unexpected table (-want +got):\n%s", diff)
	}
}

func TestTableExtractor_EmptyResults(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no container", `<html><body><div class="tabs"></div></body></html>`},
		{"no rows", `<html><body><div id="tournament-table"><div class="ui-table"></div></div></body></html>`},
		{"hidden rows", `<html><body><div class="ui-table" style="display: none">` + standingsBody + `</div></body></html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newFakePage(t, tt.html)
			table, err := newTestExtractor(t, page, config.ExtractPositional).Extract(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, table)
			assert.Empty(t, table)
		})
	}
}

func TestTableExtractor_FallbackContainer(t *testing.T) {
	page := newFakePage(t, `<html><body><div class="ui-table">`+standingsBody+`</div></body></html>`)

	table, err := newTestExtractor(t, page, config.ExtractPositional).Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, table, 3)
}

func TestTableExtractor_Canceled(t *testing.T) {
	page := newFakePage(t, standingsFixture)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestExtractor(t, page, config.ExtractPositional).Extract(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPositionalStrategy_CountsDrift(t *testing.T) {
	html := `<html><body><div class="ui-table">
	  <div class="ui-table__row">
	    <div class="table__cell"><a class="tableCellParticipant__name">Arsenal</a></div>
	    <div class="table__cell">38</div>
	    <div class="table__cell">W W D</div>
	  </div>
	  <div class="ui-table__row">
	    <div class="table__cell"><a class="tableCellParticipant__name">Chelsea</a></div>
	    <div class="table__cell">38</div>
	    <div class="table__cell">-3</div>
	  </div>
	</div></body></html>`
	page := newFakePage(t, html)
	sel, err := NewTableSelectors(testTableConfig())
	require.NoError(t, err)
	strategy, err := NewExtractionStrategy(config.ExtractionConfig{Mode: config.ExtractPositional, MatchesIndex: 1, PointsIndex: 2}, sel, discardLogger())
	require.NoError(t, err)

	table, stats, err := strategy.Extract(context.Background(), page, infra.CSS(".ui-table").First(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Drift)
	assert.Len(t, table, 2)
	points, _ := table[0].Get(model.KeyPoints)
	assert.Equal(t, "W W D", points)
}

func TestNewExtractionStrategy_HeaderNeedsSelectors(t *testing.T) {
	cfg := testTableConfig()
	cfg.HeaderCell = ""
	sel, err := NewTableSelectors(cfg)
	require.NoError(t, err)

	_, err = NewExtractionStrategy(config.ExtractionConfig{Mode: config.ExtractHeader}, sel, discardLogger())
	assert.Error(t, err)
}

func TestUniqueLabel(t *testing.T) {
	seen := map[string]int{}
	got := []string{
		uniqueLabel("Pts", seen),
		uniqueLabel("Pts", seen),
		uniqueLabel("Pts_2", seen),
		uniqueLabel("Pts", seen),
	}
	assert.Equal(t, []string{"Pts", "Pts_2", "Pts_2_2", "Pts_3"}, got)
}
