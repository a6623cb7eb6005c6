package repository

import (
	"context"

	"github.com/nrad-K/go-standings/internal/domain/model"
)

// LeagueSourceは入力ファイルからリーグ定義を読み込みます。
type LeagueSource interface {
	Load(path string) ([]model.LeagueDescriptor, error)
}

// LeagueResultRepositoryはスクレイピング結果の保存先です。
type LeagueResultRepository interface {
	Save(ctx context.Context, path string, results []model.LeagueResult) error
	Load(ctx context.Context, path string) ([]model.LeagueResult, error)
}
