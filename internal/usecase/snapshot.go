package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/domain/repository"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/logger"
)

const snapshotWorkers = 3

// ExtractorFactoryは、ページごとにTableExtractionを生成します。
type ExtractorFactory func(page infra.Page) TableExtraction

// SnapshotLoaderは保存済みHTMLの一覧取得と読み込みです。
type SnapshotLoader interface {
	ListHTMLFilePaths(path string) ([]string, error)
	LoadPage(path string) (infra.Page, error)
}

// SnapshotArgsは、スナップショット抽出ユースケースを構築するための引数を保持します。
//
// フィールド:
//
//	Loader     : HTMLファイルのローダー
//	NewExtract : ページごとの抽出処理の生成
//	Store      : 結果の保存先
//	Logger     : ロガー
type SnapshotArgs struct {
	Loader     SnapshotLoader
	NewExtract ExtractorFactory
	Store      repository.LeagueResultRepository
	Logger     logger.AppLogger
}

// ExtractSnapshotsUseCaseは、保存済みのHTMLから順位表を抽出するユースケースです。
// ブラウザを使わないため、ファイル単位で並行に処理します。
type ExtractSnapshotsUseCase struct {
	loader     SnapshotLoader
	newExtract ExtractorFactory
	store      repository.LeagueResultRepository
	logger     logger.AppLogger
}

func NewExtractSnapshotsUseCase(args SnapshotArgs) *ExtractSnapshotsUseCase {
	return &ExtractSnapshotsUseCase{
		loader:     args.Loader,
		newExtract: args.NewExtract,
		store:      args.Store,
		logger:     args.Logger,
	}
}

type snapshotJob struct {
	index int
	path  string
}

type snapshotResult struct {
	index  int
	result model.LeagueResult
}

// Runは、htmlPath(ファイルまたはディレクトリ)のHTMLから順位表を抽出し、outputPathに保存します。
// 結果のleagueNameにはファイル名(拡張子なし)を使い、順序はファイルパス順です。
//
// args:
//
//	ctx        : コンテキスト
//	htmlPath   : HTMLファイルまたはディレクトリ
//	outputPath : 出力するJSONファイル
//
// return:
//
//	[]model.LeagueResult : 抽出結果
//	error                : 一覧取得や保存に失敗した場合のエラー
func (u *ExtractSnapshotsUseCase) Run(ctx context.Context, htmlPath, outputPath string) ([]model.LeagueResult, error) {
	u.logger.Info("HTMLファイルパスの一覧を取得します", "path", htmlPath)
	paths, err := u.loader.ListHTMLFilePaths(htmlPath)
	if err != nil {
		u.logger.Error("HTMLファイルの一覧取得に失敗しました", "error", err)
		return nil, fmt.Errorf("HTMLファイルの一覧取得に失敗しました: %w", err)
	}

	jobs := make(chan snapshotJob, len(paths))
	extracted := make(chan snapshotResult, len(paths))
	var wg sync.WaitGroup

	for i := 0; i < snapshotWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.worker(ctx, jobs, extracted)
		}()
	}

	for i, path := range paths {
		jobs <- snapshotJob{index: i, path: path}
	}
	close(jobs)

	wg.Wait()
	close(extracted)

	ordered := make([]*model.LeagueResult, len(paths))
	for r := range extracted {
		result := r.result
		ordered[r.index] = &result
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]model.LeagueResult, 0, len(paths))
	for _, r := range ordered {
		if r != nil {
			results = append(results, *r)
		}
	}

	if err := u.store.Save(ctx, outputPath, results); err != nil {
		u.logger.Error("結果の保存に失敗しました", "path", outputPath, "error", err)
		return results, fmt.Errorf("結果の保存に失敗しました: %w", err)
	}
	u.logger.Info("スナップショットからの抽出が完了しました", "files", len(paths), "results", len(results), "path", outputPath)
	return results, nil
}

// workerは、ファイルパスを受け取って抽出し、結果をチャネルに送信するワーカー関数です。
func (u *ExtractSnapshotsUseCase) worker(ctx context.Context, jobs <-chan snapshotJob, results chan<- snapshotResult) {
	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
			result, err := u.processFile(ctx, job.path)
			if err != nil {
				u.logger.Error("HTMLファイルの処理に失敗しました", "path", job.path, "error", err)
				continue
			}

			select {
			case results <- snapshotResult{index: job.index, result: result}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (u *ExtractSnapshotsUseCase) processFile(ctx context.Context, path string) (model.LeagueResult, error) {
	page, err := u.loader.LoadPage(path)
	if err != nil {
		return model.LeagueResult{}, err
	}
	defer page.Close()

	table, err := u.newExtract(page).Extract(ctx)
	if err != nil {
		return model.LeagueResult{}, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return model.NewLeagueResult(model.LeagueDescriptor{LeagueName: name}, table), nil
}
