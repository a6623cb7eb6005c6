package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/logger"
)

// TableSelectorsは順位表の構造を表すロケーター群です。Row以下はコンテナからの相対指定です。
type TableSelectors struct {
	Containers      []Candidate
	Row             infra.Locator
	Participant     infra.Locator
	Cell            infra.Locator
	HeaderCell      infra.Locator
	HeaderModeCell  infra.Locator
	SentinelTimeout time.Duration
}

// NewTableSelectorsは、テーブル設定からTableSelectorsを生成します。
// header_cellとheader_mode_cellは未設定を許容します。
func NewTableSelectors(cfg config.TableConfig) (TableSelectors, error) {
	containers, err := CandidatesFromConfig(cfg.Containers)
	if err != nil {
		return TableSelectors{}, err
	}
	sel := TableSelectors{
		Containers:      containers,
		SentinelTimeout: time.Duration(cfg.SentinelTimeoutSeconds) * time.Second,
	}

	fields := []struct {
		name     string
		raw      string
		dst      *infra.Locator
		optional bool
	}{
		{"row", cfg.Row, &sel.Row, false},
		{"participant", cfg.Participant, &sel.Participant, false},
		{"cell", cfg.Cell, &sel.Cell, false},
		{"header_cell", cfg.HeaderCell, &sel.HeaderCell, true},
		{"header_mode_cell", cfg.HeaderModeCell, &sel.HeaderModeCell, true},
	}
	for _, f := range fields {
		if f.raw == "" && f.optional {
			continue
		}
		loc, err := infra.ParseLocator(f.raw)
		if err != nil {
			return TableSelectors{}, fmt.Errorf("table.%sが不正です: %w", f.name, err)
		}
		*f.dst = loc
	}
	return sel, nil
}

// ExtractStatsは1テーブル分の抽出結果の集計です。
type ExtractStats struct {
	RowCount int // 抽出開始時に数えた行数
	Skipped  int // チーム名が空などで除外した行数
	Drift    int // 値の形式が想定と異なった行数
}

// ExtractionStrategyは、コンテナ内の行からテーブルを組み立てる方式です。
type ExtractionStrategy interface {
	Name() string
	Extract(ctx context.Context, page infra.Page, container infra.Locator, rowCount int) (model.StandingsTable, ExtractStats, error)
}

// NewExtractionStrategyは、抽出モードに応じた方式を返します。
func NewExtractionStrategy(cfg config.ExtractionConfig, sel TableSelectors, logger logger.AppLogger) (ExtractionStrategy, error) {
	switch cfg.Mode {
	case config.ExtractPositional:
		return &positionalStrategy{
			sel:          sel,
			matchesIndex: cfg.MatchesIndex,
			pointsIndex:  cfg.PointsIndex,
			logger:       logger,
		}, nil
	case config.ExtractHeader:
		if sel.HeaderCell.IsZero() || sel.HeaderModeCell.IsZero() {
			return nil, fmt.Errorf("headerモードにはheader_cellとheader_mode_cellが必要です")
		}
		return &headerStrategy{sel: sel, logger: logger}, nil
	default:
		return nil, fmt.Errorf("未対応の抽出モードです: %s", cfg.Mode)
	}
}

// TableExtractorは、ページ上の順位表を正規化されたテーブルとして抽出します。
type TableExtractor struct {
	page     infra.Page
	resolver *SelectorResolver
	sel      TableSelectors
	strategy ExtractionStrategy
	logger   logger.AppLogger
}

func NewTableExtractor(page infra.Page, resolver *SelectorResolver, sel TableSelectors, strategy ExtractionStrategy, logger logger.AppLogger) *TableExtractor {
	return &TableExtractor{
		page:     page,
		resolver: resolver,
		sel:      sel,
		strategy: strategy,
		logger:   logger,
	}
}

// NewTableExtractorFromConfigは、設定からセレクターと抽出方式を組み立ててTableExtractorを生成します。
func NewTableExtractorFromConfig(page infra.Page, resolver *SelectorResolver, tableCfg config.TableConfig, extractionCfg config.ExtractionConfig, logger logger.AppLogger) (*TableExtractor, error) {
	sel, err := NewTableSelectors(tableCfg)
	if err != nil {
		return nil, err
	}
	strategy, err := NewExtractionStrategy(extractionCfg, sel, logger)
	if err != nil {
		return nil, err
	}
	return NewTableExtractor(page, resolver, sel, strategy, logger), nil
}

// Extractは、現在のページから順位表を抽出します。
// コンテナが見つからない場合や行が表示されない場合はエラーではなく空のテーブルを返します。
//
// args:
//
//	ctx : コンテキスト
//
// return:
//
//	model.StandingsTable : 抽出したテーブル(行はページ上の順序)
//	error                : コンテキストのキャンセル
func (e *TableExtractor) Extract(ctx context.Context) (model.StandingsTable, error) {
	res, err := e.resolver.Resolve(ctx, e.sel.Containers)
	if err != nil {
		var failure *model.ResolutionFailure
		if errors.As(err, &failure) {
			e.logger.Warn("順位表のコンテナが見つかりませんでした", "error", err)
			return model.StandingsTable{}, nil
		}
		return nil, err
	}
	container := res.Element

	sentinel := container.Join(e.sel.Row).Join(e.sel.Participant).First()
	if err := e.page.WaitVisible(ctx, sentinel, e.sel.SentinelTimeout); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Warn("順位表の行が表示されませんでした", "error", err)
		return model.StandingsTable{}, nil
	}

	rowCount, err := e.page.Count(ctx, container.Join(e.sel.Row))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Warn("行数の取得に失敗しました", "error", err)
		return model.StandingsTable{}, nil
	}

	table, stats, err := e.strategy.Extract(ctx, e.page, container, rowCount)
	if err != nil {
		return nil, err
	}
	if stats.Drift > 0 {
		e.logger.Warn("想定外の値を含む行がありました。列構成が変わった可能性があります", "drift_rows", stats.Drift, "mode", e.strategy.Name())
	}
	e.logger.Info("順位表を抽出しました", "mode", e.strategy.Name(), "rows", len(table), "row_count", stats.RowCount, "skipped", stats.Skipped)
	return table, nil
}

// readTextは要素のテキストを正規化して返します。読み取りに失敗した場合は空文字です。
func readText(ctx context.Context, page infra.Page, loc infra.Locator) string {
	text, err := page.InnerText(ctx, loc)
	if err != nil {
		return ""
	}
	return infra.NormalizeText(text)
}

// readTextAtは、locのidx番目の要素のテキストを返します。要素数がidx以下の場合は待機せずに空文字を返します。
func readTextAt(ctx context.Context, page infra.Page, loc infra.Locator, count, idx int) string {
	if idx >= count {
		return ""
	}
	return readText(ctx, page, loc.Nth(idx))
}

var numericPattern = regexp.MustCompile(`^[+-]?\d+$`)

type positionalStrategy struct {
	sel          TableSelectors
	matchesIndex int
	pointsIndex  int
	logger       logger.AppLogger
}

func (s *positionalStrategy) Name() string {
	return string(config.ExtractPositional)
}

// Extractは、各行のチーム名と列番号で指定したセルからTeam/Matches/Pointsを読み取ります。
func (s *positionalStrategy) Extract(ctx context.Context, page infra.Page, container infra.Locator, rowCount int) (model.StandingsTable, ExtractStats, error) {
	stats := ExtractStats{RowCount: rowCount}
	table := model.StandingsTable{}
	rows := container.Join(s.sel.Row)

	for i := 0; i < rowCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		row := rows.Nth(i)

		team := readText(ctx, page, row.Join(s.sel.Participant).First())
		if team == "" {
			stats.Skipped++
			continue
		}

		cells := row.Join(s.sel.Cell)
		cellCount, err := page.Count(ctx, cells)
		if err != nil {
			cellCount = 0
		}
		matches := readTextAt(ctx, page, cells, cellCount, s.matchesIndex)
		points := readTextAt(ctx, page, cells, cellCount, s.pointsIndex)

		if points != "" && !numericPattern.MatchString(points) {
			stats.Drift++
			s.logger.Warn("Pointsの値が数値ではありません", "row", i, "team", team, "value", points)
		}

		table = append(table, model.NewStandingsRow(
			[]string{model.KeyTeam, model.KeyMatches, model.KeyPoints},
			[]string{team, matches, points},
		))
	}
	return table, stats, nil
}

type headerStrategy struct {
	sel    TableSelectors
	logger logger.AppLogger
}

func (s *headerStrategy) Name() string {
	return string(config.ExtractHeader)
}

// Extractは、ヘッダー行の列名をキーにして各行の全セルを読み取ります。
// すべての行が同じ列を持つように揃え、全行で空の列は取り除きます。
func (s *headerStrategy) Extract(ctx context.Context, page infra.Page, container infra.Locator, rowCount int) (model.StandingsTable, ExtractStats, error) {
	stats := ExtractStats{RowCount: rowCount}
	headers, seen, err := s.readHeaders(ctx, page, container)
	if err != nil {
		return nil, stats, err
	}

	table := model.StandingsTable{}
	rows := container.Join(s.sel.Row)
	for i := 0; i < rowCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		row := rows.Nth(i)

		if readText(ctx, page, row.Join(s.sel.Participant).First()) == "" {
			stats.Skipped++
			continue
		}

		texts, err := page.AllInnerTexts(ctx, row.Join(s.sel.HeaderModeCell))
		if err != nil || len(texts) == 0 {
			stats.Skipped++
			continue
		}
		for j := range texts {
			texts[j] = infra.NormalizeText(texts[j])
		}

		// ヘッダーより多いセルがある場合は列名を補う
		for j := len(headers); j < len(texts); j++ {
			headers = append(headers, uniqueLabel(fmt.Sprintf("Col%d", j+1), seen))
		}
		table = append(table, model.NewStandingsRow(headers[:len(texts)], texts))
	}

	table = table.Normalize(headers)
	return dropEmptyColumns(table, headers), stats, nil
}

// readHeadersは列名を読み取ります。title属性、表示テキスト、ColNの順に採用します。
func (s *headerStrategy) readHeaders(ctx context.Context, page infra.Page, container infra.Locator) ([]string, map[string]int, error) {
	cells := container.Join(s.sel.HeaderCell)
	count, err := page.Count(ctx, cells)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		s.logger.Warn("ヘッダーの取得に失敗しました", "error", err)
		count = 0
	}

	seen := make(map[string]int, count)
	headers := make([]string, 0, count)
	for j := 0; j < count; j++ {
		cell := cells.Nth(j)
		label, err := page.Attribute(ctx, cell, "title")
		label = infra.NormalizeText(label)
		if err != nil || label == "" {
			label = readText(ctx, page, cell)
		}
		if label == "" {
			label = fmt.Sprintf("Col%d", j+1)
		}
		headers = append(headers, uniqueLabel(label, seen))
	}
	return headers, seen, nil
}

// uniqueLabelは重複した列名に連番を付けます(Pts, Pts_2, Pts_3...)。
func uniqueLabel(label string, seen map[string]int) string {
	seen[label]++
	if seen[label] == 1 {
		return label
	}
	for {
		candidate := fmt.Sprintf("%s_%d", label, seen[label])
		if _, exists := seen[candidate]; !exists {
			seen[candidate] = 1
			return candidate
		}
		seen[label]++
	}
}

func dropEmptyColumns(table model.StandingsTable, columns []string) model.StandingsTable {
	kept := make([]string, 0, len(columns))
	for _, col := range columns {
		for _, row := range table {
			if v, _ := row.Get(col); v != "" {
				kept = append(kept, col)
				break
			}
		}
	}
	return table.Normalize(kept)
}
