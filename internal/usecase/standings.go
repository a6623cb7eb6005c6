package usecase

import (
	"context"
	"fmt"

	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/domain/repository"
	"github.com/nrad-K/go-standings/internal/logger"
)

// StandingsArgsは、順位表取得ユースケースを構築するための引数を保持します。
type StandingsArgs struct {
	InputPath  string
	OutputPath string
	Source     repository.LeagueSource
	Walker     *LeagueWalker
	Store      repository.LeagueResultRepository
	Logger     logger.AppLogger
}

// StandingsUseCaseは、入力ファイルのリーグを巡回して結果をJSONに保存します。
type StandingsUseCase struct {
	inputPath  string
	outputPath string
	source     repository.LeagueSource
	walker     *LeagueWalker
	store      repository.LeagueResultRepository
	logger     logger.AppLogger
}

func NewStandingsUseCase(args StandingsArgs) *StandingsUseCase {
	return &StandingsUseCase{
		inputPath:  args.InputPath,
		outputPath: args.OutputPath,
		source:     args.Source,
		walker:     args.Walker,
		store:      args.Store,
		logger:     args.Logger,
	}
}

// Runは、リーグの読み込み、巡回、保存を行い、各リーグの処理状況を返します。
func (u *StandingsUseCase) Run(ctx context.Context) ([]model.LeagueRun, error) {
	leagues, err := u.source.Load(u.inputPath)
	if err != nil {
		u.logger.Error("入力ファイルの読み込みに失敗しました", "path", u.inputPath, "error", err)
		return nil, err
	}
	u.logger.Info("入力ファイルを読み込みました", "path", u.inputPath, "leagues", len(leagues))

	results, err := u.walker.Run(ctx, leagues)
	if err != nil {
		return u.walker.Runs(), err
	}

	if err := u.store.Save(ctx, u.outputPath, results); err != nil {
		u.logger.Error("結果の保存に失敗しました", "path", u.outputPath, "error", err)
		return u.walker.Runs(), fmt.Errorf("結果の保存に失敗しました: %w", err)
	}
	u.logger.Info("結果を保存しました", "path", u.outputPath, "results", len(results))
	return u.walker.Runs(), nil
}
