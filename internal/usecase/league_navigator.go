package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/antzucaro/matchr"
	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/logger"
)

// LeagueNavigatorは、サイト内検索を使ってリーグのページへ移動します。
type LeagueNavigator struct {
	page     infra.Page
	resolver *SelectorResolver
	logger   logger.AppLogger

	cookieAccept    Candidate
	searchPanel     Candidate
	panelProbe      time.Duration
	searchOpen      infra.Locator
	searchInputWait Candidate
	searchInputs    []Candidate
	searchResults   Candidate
	searchResult    Candidate
	fuzzyThreshold  float64
}

// NewLeagueNavigatorは、ナビゲーション設定からLeagueNavigatorを生成します。
//
// args:
//
//	page     : 操作対象のページ
//	resolver : 候補ロケーターの解決
//	cfg      : ナビゲーション設定
//	logger   : ロガー
//
// return:
//
//	*LeagueNavigator : 生成されたナビゲーター
//	error            : セレクターの解析に失敗した場合のエラー
func NewLeagueNavigator(page infra.Page, resolver *SelectorResolver, cfg config.NavigationConfig, logger logger.AppLogger) (*LeagueNavigator, error) {
	single := []struct {
		name string
		cfg  config.CandidateConfig
	}{
		{"cookie_accept", cfg.CookieAccept},
		{"search_panel", cfg.SearchPanel},
		{"search_input_wait", cfg.SearchInputWait},
		{"search_results", cfg.SearchResults},
		{"search_result", cfg.SearchResult},
	}
	parsed := make(map[string]Candidate, len(single))
	for _, s := range single {
		cand, err := NewCandidate(s.cfg.Locator, s.cfg.TimeoutSeconds)
		if err != nil {
			return nil, fmt.Errorf("navigation.%sが不正です: %w", s.name, err)
		}
		parsed[s.name] = cand
	}

	searchOpen, err := infra.ParseLocator(cfg.SearchOpen)
	if err != nil {
		return nil, fmt.Errorf("navigation.search_openが不正です: %w", err)
	}
	inputs, err := CandidatesFromConfig(cfg.SearchInputs)
	if err != nil {
		return nil, err
	}

	return &LeagueNavigator{
		page:            page,
		resolver:        resolver,
		logger:          logger,
		cookieAccept:    parsed["cookie_accept"],
		searchPanel:     parsed["search_panel"],
		panelProbe:      time.Duration(cfg.SearchPanelProbeSeconds) * time.Second,
		searchOpen:      searchOpen,
		searchInputWait: parsed["search_input_wait"],
		searchInputs:    inputs,
		searchResults:   parsed["search_results"],
		searchResult:    parsed["search_result"],
		fuzzyThreshold:  cfg.FuzzyThreshold,
	}, nil
}

// NavigateToLeagueは、検索パネルにリーグ名を入力して検索結果をクリックします。
//
// args:
//
//	ctx        : コンテキスト
//	leagueName : 検索するリーグ名
//
// return:
//
//	error : 検索欄や検索結果が見つからない場合のエラー
func (n *LeagueNavigator) NavigateToLeague(ctx context.Context, leagueName string) error {
	n.logger.Info("リーグのページへ移動します", "league", leagueName)

	n.acceptCookies(ctx)

	if err := n.openSearchPanel(ctx); err != nil {
		return err
	}

	input, err := n.resolver.Resolve(ctx, n.searchInputs)
	if err != nil {
		return fmt.Errorf("検索欄が見つかりませんでした: %w", err)
	}
	if err := n.page.Click(ctx, input.Element); err != nil {
		return fmt.Errorf("検索欄のクリックに失敗しました: %w", err)
	}
	if err := n.page.Fill(ctx, input.Element, leagueName); err != nil {
		return fmt.Errorf("検索欄への入力に失敗しました: %w", err)
	}

	// 結果一覧が出なくても個別の結果を待つ
	n.resolver.Probe(ctx, n.searchResults.Locator, n.searchResults.Timeout)

	target, err := n.chooseResult(ctx, leagueName)
	if err != nil {
		return err
	}
	if err := n.page.Click(ctx, target); err != nil {
		return fmt.Errorf("検索結果のクリックに失敗しました: %w", err)
	}
	return nil
}

// acceptCookiesはCookieバナーが表示されていれば同意します。失敗しても処理は続行します。
func (n *LeagueNavigator) acceptCookies(ctx context.Context) {
	if !n.resolver.Probe(ctx, n.cookieAccept.Locator, n.cookieAccept.Timeout) {
		return
	}
	if err := n.page.Click(ctx, n.cookieAccept.Locator.First()); err != nil {
		n.logger.Info("Cookieバナーのクリックに失敗しました", "error", err)
		return
	}
	n.logger.Info("Cookieバナーに同意しました")
}

func (n *LeagueNavigator) openSearchPanel(ctx context.Context) error {
	if n.resolver.Probe(ctx, n.searchPanel.Locator, n.panelProbe) {
		return nil
	}
	if err := n.page.Click(ctx, n.searchOpen.First()); err != nil {
		return fmt.Errorf("検索ボタンのクリックに失敗しました: %w", err)
	}
	if n.resolver.Probe(ctx, n.searchPanel.Locator, n.searchPanel.Timeout) {
		return nil
	}
	if n.resolver.Probe(ctx, n.searchInputWait.Locator, n.searchInputWait.Timeout) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.New("検索パネルを開けませんでした")
}

// chooseResultは、クリックする検索結果を選びます。
// 表示テキストが完全に一致する結果、最も類似度の高い結果、先頭の結果の順に試します。
func (n *LeagueNavigator) chooseResult(ctx context.Context, leagueName string) (infra.Locator, error) {
	exact := n.searchResult.Locator.FindText(leagueName)
	if n.resolver.Probe(ctx, exact, n.searchResult.Timeout) {
		return exact.First(), nil
	}

	if n.fuzzyThreshold > 0 {
		if loc, ok := n.closestResult(ctx, leagueName); ok {
			return loc, nil
		}
	}

	res, err := n.resolver.Resolve(ctx, []Candidate{n.searchResult})
	if err != nil {
		var failure *model.ResolutionFailure
		if errors.As(err, &failure) {
			return infra.Locator{}, fmt.Errorf("クリックできる検索結果がありませんでした: %w", err)
		}
		return infra.Locator{}, err
	}
	return res.Element, nil
}

// closestResultは、表示中の検索結果のうちリーグ名との類似度が最も高いものを返します。
func (n *LeagueNavigator) closestResult(ctx context.Context, leagueName string) (infra.Locator, bool) {
	texts, err := n.page.AllInnerTexts(ctx, n.searchResult.Locator)
	if err != nil || len(texts) == 0 {
		return infra.Locator{}, false
	}

	target := strings.ToLower(leagueName)
	best, bestScore := -1, 0.0
	for i, text := range texts {
		candidate := strings.ToLower(infra.NormalizeText(text))
		if candidate == "" {
			continue
		}
		score := matchr.JaroWinkler(candidate, target, false)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < n.fuzzyThreshold {
		return infra.Locator{}, false
	}

	n.logger.Info("類似度で検索結果を選択しました", "league", leagueName, "result", infra.NormalizeText(texts[best]), "score", bestScore)
	return n.searchResult.Locator.Nth(best), true
}
