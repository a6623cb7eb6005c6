package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

type FailedLeaguePolicy string

const (
	FailedLeagueEmpty FailedLeaguePolicy = "empty" // 空のテーブルで結果に残す
	FailedLeagueOmit  FailedLeaguePolicy = "omit"  // 結果から除外する
)

type ExtractionMode string

const (
	ExtractPositional ExtractionMode = "positional" // 列番号でMatches/Pointsを読む
	ExtractHeader     ExtractionMode = "header"     // ヘッダー行の列名で全列を読む
)

// CandidateConfigは候補ロケーター1件と、その待機時間です。
type CandidateConfig struct {
	Locator        string `yaml:"locator" validate:"required,min=1"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=1,max=10"`
}

// NavigationConfigはサイト内検索でリーグのページへ移動するためのセレクター設定です。
type NavigationConfig struct {
	CookieAccept            CandidateConfig   `yaml:"cookie_accept" validate:"required"`
	SearchPanel             CandidateConfig   `yaml:"search_panel" validate:"required"`                   // 検索パネル(開いた後の待機時間)
	SearchPanelProbeSeconds int               `yaml:"search_panel_probe_seconds" validate:"min=1,max=10"` // 既に開いているかの確認時間
	SearchOpen              string            `yaml:"search_open" validate:"required,min=1"`              // 検索パネルを開くボタン
	SearchInputWait         CandidateConfig   `yaml:"search_input_wait" validate:"required"`              // パネルが見えない場合に待つ入力欄
	SearchInputs            []CandidateConfig `yaml:"search_inputs" validate:"required,min=1,dive"`       // 入力欄の候補(先頭から順に試す)
	SearchResults           CandidateConfig   `yaml:"search_results" validate:"required"`                 // 検索結果の一覧
	SearchResult            CandidateConfig   `yaml:"search_result" validate:"required"`                  // 検索結果の1件
	FuzzyThreshold          float64           `yaml:"fuzzy_threshold" validate:"gte=0,lte=1"`             // 完全一致しない場合の類似度の下限(0で無効)
}

// TabConfigは順位表タブの設定です。
type TabConfig struct {
	Required               bool              `yaml:"required"` // trueの場合、タブが見つからないリーグは失敗扱い
	SelectedMarker         string            `yaml:"selected_marker" validate:"required,min=1"`
	ProbeTimeoutSeconds    int               `yaml:"probe_timeout_seconds" validate:"min=1,max=10"`
	SelectedTimeoutSeconds int               `yaml:"selected_timeout_seconds" validate:"min=1,max=10"`
	Targets                []CandidateConfig `yaml:"targets" validate:"required,min=1,dive"`
}

// TableConfigは順位表のセレクター設定です。
type TableConfig struct {
	Containers             []CandidateConfig `yaml:"containers" validate:"required,min=1,dive"`
	Row                    string            `yaml:"row" validate:"required,min=1"`
	Participant            string            `yaml:"participant" validate:"required,min=1"`
	Cell                   string            `yaml:"cell" validate:"required,min=1"`
	HeaderCell             string            `yaml:"header_cell"`
	HeaderModeCell         string            `yaml:"header_mode_cell"`
	SentinelTimeoutSeconds int               `yaml:"sentinel_timeout_seconds" validate:"min=1,max=10"`
}

// ExtractionConfigは抽出方式の設定です。列番号はサイトの列構成に依存します。
type ExtractionConfig struct {
	Mode         ExtractionMode `yaml:"mode" validate:"required,oneof=positional header"`
	MatchesIndex int            `yaml:"matches_index" validate:"min=0"`
	PointsIndex  int            `yaml:"points_index" validate:"min=0"`
}

// ScraperConfigはスクレイパーの動作設定をまとめる構造体です。
type ScraperConfig struct {
	BaseURL            string             `yaml:"base_url" validate:"required,url,min=1"`
	InputPath          string             `yaml:"input_path" validate:"required,min=1"`
	OutputPath         string             `yaml:"output_path" validate:"required,min=1"`
	FailedLeaguePolicy FailedLeaguePolicy `yaml:"failed_league_policy" validate:"omitempty,oneof=empty omit"`
	Browser            BrowserConfig      `yaml:"browser" validate:"required"`
	Navigation         NavigationConfig   `yaml:"navigation" validate:"required"`
	Tab                TabConfig          `yaml:"tab" validate:"required"`
	Table              TableConfig        `yaml:"table" validate:"required"`
	Extraction         ExtractionConfig   `yaml:"extraction" validate:"required"`
	Log                LogConfig          `yaml:"log"`
}

// バリデーターのインスタンス
var validate = validator.New()

// YAMLファイルからScraperConfigを読み込む
func LoadScraperConfig(path string) (ScraperConfig, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return ScraperConfig{}, fmt.Errorf("設定ファイルを読み込めませんでした: %w", err)
	}
	return ParseScraperConfig(f)
}

// ParseScraperConfigはYAMLを解析し、既定値の補完とバリデーションを行います。
func ParseScraperConfig(data []byte) (ScraperConfig, error) {
	var cfg ScraperConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ScraperConfig{}, fmt.Errorf("YAMLの解析に失敗しました: %w", err)
	}

	if cfg.FailedLeaguePolicy == "" {
		cfg.FailedLeaguePolicy = FailedLeagueEmpty
	}

	// バリデーション
	if err := validate.Struct(cfg); err != nil {
		return ScraperConfig{}, fmt.Errorf("設定のバリデーションに失敗しました: %w", err)
	}

	// カスタムバリデーション
	if cfg.Extraction.Mode == ExtractHeader && (cfg.Table.HeaderCell == "" || cfg.Table.HeaderModeCell == "") {
		return ScraperConfig{}, fmt.Errorf("headerモードにはtable.header_cellとtable.header_mode_cellが必要です")
	}
	if cfg.Extraction.Mode == ExtractPositional && cfg.Extraction.MatchesIndex == cfg.Extraction.PointsIndex {
		return ScraperConfig{}, fmt.Errorf("matches_indexとpoints_indexに同じ列は指定できません")
	}

	return cfg, nil
}
