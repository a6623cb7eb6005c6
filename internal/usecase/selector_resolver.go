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

// Candidateは要素を特定するための候補ロケーターと、その待機時間です。
type Candidate struct {
	Locator infra.Locator
	Timeout time.Duration
}

// NewCandidateは、セレクター文字列とタイムアウト秒数からCandidateを生成します。
func NewCandidate(raw string, timeoutSeconds int) (Candidate, error) {
	loc, err := infra.ParseLocator(raw)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{Locator: loc, Timeout: time.Duration(timeoutSeconds) * time.Second}, nil
}

// CandidatesFromConfigは、設定の候補リストを順序を保ったままCandidateに変換します。
func CandidatesFromConfig(cfgs []config.CandidateConfig) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(cfgs))
	for _, c := range cfgs {
		cand, err := NewCandidate(c.Locator, c.TimeoutSeconds)
		if err != nil {
			return nil, fmt.Errorf("候補セレクターが不正です: %w", err)
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// Resolutionは解決に成功した候補です。
//
// フィールド:
//
//	Element : 操作対象の要素(一致した中で文書順の先頭)
//	Matched : 一致した候補
//	Index   : 候補リスト内の位置
//	Matches : 候補に一致した要素数(解決時点)
type Resolution struct {
	Element infra.Locator
	Matched Candidate
	Index   int
	Matches int
}

// SelectorResolverは候補ロケーターを順に試し、最初に可視になった要素を返します。
// ページの状態は変更しません。
type SelectorResolver struct {
	page   infra.Page
	logger logger.AppLogger
}

func NewSelectorResolver(page infra.Page, logger logger.AppLogger) *SelectorResolver {
	return &SelectorResolver{page: page, logger: logger}
}

// Resolveは、候補をリスト順に試します。各候補は自身のタイムアウトまで待機し、
// 一致した要素のうち文書順で先頭のものが可視になれば成功です。
//
// args:
//
//	ctx        : コンテキスト
//	candidates : 優先順の候補リスト
//
// return:
//
//	Resolution : 解決結果
//	error      : どの候補も一致しない場合は*model.ResolutionFailure
func (r *SelectorResolver) Resolve(ctx context.Context, candidates []Candidate) (Resolution, error) {
	tried := make([]string, 0, len(candidates))
	for i, cand := range candidates {
		tried = append(tried, cand.Locator.String())

		element := cand.Locator.First()
		if err := r.page.WaitVisible(ctx, element, cand.Timeout); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Resolution{}, ctxErr
			}
			r.logger.Debug("候補が見つかりませんでした", "locator", cand.Locator.String(), "timeout", cand.Timeout, "error", err)
			continue
		}

		matches, err := r.page.Count(ctx, cand.Locator)
		if err != nil || matches < 1 {
			matches = 1
		}
		if matches > 1 {
			r.logger.Debug("複数の要素が一致したため先頭を使用します", "locator", cand.Locator.String(), "matches", matches)
		}
		return Resolution{Element: element, Matched: cand, Index: i, Matches: matches}, nil
	}
	return Resolution{}, &model.ResolutionFailure{Candidates: tried}
}

// Probeは、単一のロケーターがtimeout以内に可視になるかを返します。
func (r *SelectorResolver) Probe(ctx context.Context, loc infra.Locator, timeout time.Duration) bool {
	err := r.page.WaitVisible(ctx, loc.First(), timeout)
	if err != nil && !errors.Is(err, infra.ErrWaitTimeout) && ctx.Err() == nil {
		r.logger.Debug("可視状態の確認に失敗しました", "locator", loc.String(), "error", err)
	}
	return err == nil
}
