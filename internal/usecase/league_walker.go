package usecase

import (
	"context"
	"fmt"

	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/logger"
)

// LeagueNavigationはリーグのページへの移動です。
type LeagueNavigation interface {
	NavigateToLeague(ctx context.Context, leagueName string) error
}

// TabActivationは順位表タブの有効化です。
type TabActivation interface {
	Activate(ctx context.Context) (TabState, error)
}

// TableExtractionは現在のページからの順位表の抽出です。
type TableExtraction interface {
	Extract(ctx context.Context) (model.StandingsTable, error)
}

// LeagueWalkerArgsは、LeagueWalkerを構築するための引数を保持します。
//
// フィールド:
//
//	Page        : 操作対象のページ
//	BaseURL     : 最初に開くURL
//	Policy      : 失敗したリーグの扱い
//	TabRequired : タブの有効化に失敗したリーグを失敗扱いにするか
//	Navigator   : リーグのページへの移動
//	Tabs        : 順位表タブの有効化
//	Extractor   : 順位表の抽出
//	Logger      : ロガー
type LeagueWalkerArgs struct {
	Page        infra.Page
	BaseURL     string
	Policy      config.FailedLeaguePolicy
	TabRequired bool
	Navigator   LeagueNavigation
	Tabs        TabActivation
	Extractor   TableExtraction
	Logger      logger.AppLogger
}

// LeagueWalkerは、リーグを入力順に1件ずつ処理して結果を集めます。
// ページは1つを共有するため、並行には処理しません。
type LeagueWalker struct {
	page        infra.Page
	baseURL     string
	policy      config.FailedLeaguePolicy
	tabRequired bool
	navigator   LeagueNavigation
	tabs        TabActivation
	extractor   TableExtraction
	logger      logger.AppLogger
	runs        []model.LeagueRun
}

func NewLeagueWalker(args LeagueWalkerArgs) *LeagueWalker {
	policy := args.Policy
	if policy == "" {
		policy = config.FailedLeagueEmpty
	}
	return &LeagueWalker{
		page:        args.Page,
		baseURL:     args.BaseURL,
		policy:      policy,
		tabRequired: args.TabRequired,
		navigator:   args.Navigator,
		tabs:        args.Tabs,
		extractor:   args.Extractor,
		logger:      args.Logger,
	}
}

// Runは、ベースURLを開いてから各リーグの順位表を順番に取得します。
//
// args:
//
//	ctx     : コンテキスト
//	leagues : 入力ファイルのリーグ定義
//
// return:
//
//	[]model.LeagueResult : 入力順の結果
//	error                : キャンセルされた場合のエラー
func (w *LeagueWalker) Run(ctx context.Context, leagues []model.LeagueDescriptor) ([]model.LeagueResult, error) {
	w.runs = make([]model.LeagueRun, 0, len(leagues))
	w.logger.Info("順位表の取得を開始します", "base_url", w.baseURL, "leagues", len(leagues))

	// ベースURLを開けない場合は、すべてのリーグを失敗として扱い出力は残す
	var baseErr error
	if err := w.page.Navigate(ctx, w.baseURL); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		w.logger.Error("ベースURLへのナビゲーションに失敗しました", "url", w.baseURL, "error", err)
		baseErr = fmt.Errorf("ベースURL %s へのナビゲーションに失敗しました: %w", w.baseURL, err)
	}

	results := make([]model.LeagueResult, 0, len(leagues))
	for _, league := range leagues {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		run := model.NewLeagueRun(league)
		if league.IsBlank() {
			w.logger.Debug("leagueNameが空のためスキップします", "country", league.Country)
			w.runs = append(w.runs, run.Skip("leagueNameが空です"))
			continue
		}

		var table model.StandingsTable
		err := baseErr
		if err == nil {
			table, err = w.collect(ctx, league)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return results, ctxErr
			}
			w.logger.Error("リーグの処理に失敗しました", "league", league.LeagueName, "policy", w.policy, "error", err)
			w.runs = append(w.runs, run.Fail(err))
			if w.policy == config.FailedLeagueEmpty {
				results = append(results, model.NewLeagueResult(league, model.StandingsTable{}))
			}
			continue
		}

		results = append(results, model.NewLeagueResult(league, table))
		w.runs = append(w.runs, run.Complete(len(table)))
	}

	w.logger.Info("順位表の取得が完了しました", "results", len(results))
	return results, nil
}

// collectは1リーグ分の移動、タブの有効化、抽出を行います。
func (w *LeagueWalker) collect(ctx context.Context, league model.LeagueDescriptor) (model.StandingsTable, error) {
	if err := w.navigator.NavigateToLeague(ctx, league.LeagueName); err != nil {
		return nil, err
	}

	if _, err := w.tabs.Activate(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if w.tabRequired {
			return nil, err
		}
		w.logger.Warn("順位表タブを有効化できませんでした。現在のページから抽出します", "league", league.LeagueName, "error", err)
	}

	return w.extractor.Extract(ctx)
}

// Runsは直近のRunで処理した各リーグの状況を入力順に返します。
func (w *LeagueWalker) Runs() []model.LeagueRun {
	return append([]model.LeagueRun(nil), w.runs...)
}
