package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scraperYAML = `
base_url: "https://www.flashscore.pl/"
input_path: "data/input.json"
output_path: "data/results.json"
browser:
  driver: "playwright"
  enable_headless: true
  user_agent: "test-agent"
  navigation_timeout_seconds: 60
  read_timeout_seconds: 2
navigation:
  cookie_accept: {locator: 'text="I Accept"', timeout_seconds: 3}
  search_panel: {locator: "#ls-search-window", timeout_seconds: 5}
  search_panel_probe_seconds: 1
  search_open: "#search-window"
  search_input_wait: {locator: "input.searchInput__input", timeout_seconds: 5}
  search_inputs:
    - {locator: "css=input.searchInput__input", timeout_seconds: 3}
  search_results: {locator: "css=.searchResults", timeout_seconds: 10}
  search_result: {locator: "css=.searchResults a.searchResult", timeout_seconds: 6}
  fuzzy_threshold: 0.85
tab:
  selected_marker: "a.standings_table.selected"
  probe_timeout_seconds: 2
  selected_timeout_seconds: 8
  targets:
    - {locator: "a.standings_table", timeout_seconds: 2}
table:
  containers:
    - {locator: "#tournament-table .ui-table", timeout_seconds: 10}
  row: ".ui-table__row"
  participant: ".tableCellParticipant__name"
  cell: ".table__cell"
  sentinel_timeout_seconds: 10
extraction:
  mode: "positional"
  matches_index: 2
  points_index: 8
`

func TestParseScraperConfig(t *testing.T) {
	cfg, err := ParseScraperConfig([]byte(scraperYAML))
	require.NoError(t, err)

	assert.Equal(t, FailedLeagueEmpty, cfg.FailedLeaguePolicy)
	assert.Equal(t, DriverPlaywright, cfg.Browser.Driver)
	assert.Equal(t, ExtractPositional, cfg.Extraction.Mode)
	assert.Equal(t, 8, cfg.Extraction.PointsIndex)
	assert.Equal(t, `text="I Accept"`, cfg.Navigation.CookieAccept.Locator)
	require.Len(t, cfg.Table.Containers, 1)
	assert.Equal(t, 10, cfg.Table.Containers[0].TimeoutSeconds)
	assert.False(t, cfg.Tab.Required)
}

func TestParseScraperConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"element timeout above 10s", "sentinel_timeout_seconds: 10", "sentinel_timeout_seconds: 30"},
		{"candidate timeout above 10s", `{locator: "a.standings_table", timeout_seconds: 2}`, `{locator: "a.standings_table", timeout_seconds: 11}`},
		{"unknown mode", `mode: "positional"`, `mode: "guess"`},
		{"same column twice", "points_index: 8", "points_index: 2"},
		{"header mode without header selectors", `mode: "positional"`, `mode: "header"`},
		{"unknown driver", `driver: "playwright"`, `driver: "selenium"`},
		{"bad base url", `base_url: "https://www.flashscore.pl/"`, `base_url: "flashscore"`},
		{"unknown policy", `input_path: "data/input.json"`, "input_path: \"data/input.json\"\nfailed_league_policy: \"retry\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Contains(t, scraperYAML, tt.from)
			_, err := ParseScraperConfig([]byte(strings.Replace(scraperYAML, tt.from, tt.to, 1)))
			assert.Error(t, err)
		})
	}
}

func TestLoadScraperConfig_MissingFile(t *testing.T) {
	_, err := LoadScraperConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

const reportYAML = `
input_path: "data/input.json"
results_path: "data/results.json"
data_dir: "data/leagues"
formats: ["xlsx", "csv"]
concurrency: 4
weather:
  base_url: "https://api.open-meteo.com"
  timeout_seconds: 10
  retry_count: 5
  retry_wait_millis: 200
  retry_max_wait_millis: 2000
  cache:
    driver: "memory"
    ttl_seconds: 3600
  circuit_breaker:
    enabled: true
    failure_threshold: 3
log:
  format: "json"
  level: "debug"
`

func TestLoadReportConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(reportYAML), 0644))

	cfg, err := LoadReportConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []ReportFormat{FormatXLSX, FormatCSV}, cfg.Formats)
	assert.Equal(t, CacheMemory, cfg.Weather.Cache.Driver)
	assert.Equal(t, 3600.0, cfg.Weather.Cache.TTL().Seconds())
	assert.Equal(t, 3, cfg.Weather.CircuitBreaker.FailureThreshold)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParseReportConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"duplicate format", `formats: ["xlsx", "csv"]`, `formats: ["xlsx", "xlsx"]`},
		{"unknown format", `formats: ["xlsx", "csv"]`, `formats: ["pdf"]`},
		{"max wait below wait", "retry_max_wait_millis: 2000", "retry_max_wait_millis: 100"},
		{"unknown cache", `driver: "memory"`, `driver: "memcached"`},
		{"too many workers", "concurrency: 4", "concurrency: 50"},
		{"bad log format", `format: "json"`, `format: "xml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Contains(t, reportYAML, tt.from)
			_, err := ParseReportConfig([]byte(strings.Replace(reportYAML, tt.from, tt.to, 1)))
			assert.Error(t, err)
		})
	}
}
