package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/logger"
)

// TabStateは順位表タブの状態です。
type TabState int

const (
	TabInactive TabState = iota
	TabActive
)

func (s TabState) String() string {
	if s == TabActive {
		return "active"
	}
	return "inactive"
}

const standingsTabName = "standings"

// TabActivatorArgsは、TabActivatorを構築するための引数を保持します。
//
// フィールド:
//
//	Page            : 操作対象のページ
//	Resolver        : 候補ロケーターの解決
//	SelectedMarker  : タブが選択済みであることを示す要素
//	Targets         : クリック対象の候補(優先順)
//	ProbeTimeout    : 選択済みかどうかの事前確認の待機時間
//	SelectedTimeout : クリック後に選択状態になるまでの待機時間
//	Logger          : ロガー
type TabActivatorArgs struct {
	Page            infra.Page
	Resolver        *SelectorResolver
	SelectedMarker  infra.Locator
	Targets         []Candidate
	ProbeTimeout    time.Duration
	SelectedTimeout time.Duration
	Logger          logger.AppLogger
}

// TabActivatorは順位表タブをアクティブにします。選択済みの場合はクリックしません。
type TabActivator struct {
	page            infra.Page
	resolver        *SelectorResolver
	selectedMarker  infra.Locator
	targets         []Candidate
	probeTimeout    time.Duration
	selectedTimeout time.Duration
	logger          logger.AppLogger
}

func NewTabActivator(args TabActivatorArgs) *TabActivator {
	return &TabActivator{
		page:            args.Page,
		resolver:        args.Resolver,
		selectedMarker:  args.SelectedMarker,
		targets:         args.Targets,
		probeTimeout:    args.ProbeTimeout,
		selectedTimeout: args.SelectedTimeout,
		logger:          args.Logger,
	}
}

// NewTabActivatorFromConfigは、タブ設定からTabActivatorを生成します。
func NewTabActivatorFromConfig(page infra.Page, resolver *SelectorResolver, cfg config.TabConfig, logger logger.AppLogger) (*TabActivator, error) {
	marker, err := infra.ParseLocator(cfg.SelectedMarker)
	if err != nil {
		return nil, fmt.Errorf("selected_markerが不正です: %w", err)
	}
	targets, err := CandidatesFromConfig(cfg.Targets)
	if err != nil {
		return nil, err
	}
	return NewTabActivator(TabActivatorArgs{
		Page:            page,
		Resolver:        resolver,
		SelectedMarker:  marker,
		Targets:         targets,
		ProbeTimeout:    time.Duration(cfg.ProbeTimeoutSeconds) * time.Second,
		SelectedTimeout: time.Duration(cfg.SelectedTimeoutSeconds) * time.Second,
		Logger:          logger,
	}), nil
}

// Activateは、順位表タブをアクティブにします。
//
// args:
//
//	ctx : コンテキスト
//
// return:
//
//	TabState : 処理後の状態
//	error    : タブを有効化できなかった場合は*model.TabNotFound
func (a *TabActivator) Activate(ctx context.Context) (TabState, error) {
	if a.resolver.Probe(ctx, a.selectedMarker, a.probeTimeout) {
		a.logger.Debug("順位表タブは選択済みです")
		return TabActive, nil
	}
	if err := ctx.Err(); err != nil {
		return TabInactive, err
	}

	res, err := a.resolver.Resolve(ctx, a.targets)
	if err != nil {
		var failure *model.ResolutionFailure
		if errors.As(err, &failure) {
			return TabInactive, &model.TabNotFound{Tab: standingsTabName, Cause: err}
		}
		return TabInactive, err
	}

	if err := a.page.Click(ctx, res.Element); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return TabInactive, ctxErr
		}
		return TabInactive, &model.TabNotFound{Tab: standingsTabName, Cause: fmt.Errorf("タブのクリックに失敗しました: %w", err)}
	}

	if err := a.page.WaitVisible(ctx, a.selectedMarker.First(), a.selectedTimeout); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return TabInactive, ctxErr
		}
		return TabInactive, &model.TabNotFound{Tab: standingsTabName, Cause: fmt.Errorf("クリック後に選択状態になりませんでした: %w", err)}
	}

	a.logger.Info("順位表タブを選択しました", "locator", res.Matched.Locator.String())
	return TabActive, nil
}
