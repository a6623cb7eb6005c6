package infra

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/domain/repository"
)

type resultJSONStore struct{}

// NewResultJSONStoreは、スクレイピング結果をJSONファイルとして保存するリポジトリを生成します。
func NewResultJSONStore() repository.LeagueResultRepository {
	return &resultJSONStore{}
}

// Saveは、結果を入力順のJSON配列として書き出します。各行の列順はそのまま保持されます。
func (s *resultJSONStore) Save(ctx context.Context, path string, results []model.LeagueResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if results == nil {
		results = []model.LeagueResult{}
	}
	if err := WriteJSONFile(path, results); err != nil {
		return fmt.Errorf("結果ファイル %s の保存に失敗しました: %w", path, err)
	}
	return nil
}

// Loadは、Saveで書き出したファイルを読み込みます。
func (s *resultJSONStore) Load(ctx context.Context, path string) ([]model.LeagueResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("結果ファイル %s を読み込めませんでした: %w", path, err)
	}

	var results []model.LeagueResult
	if err := sonic.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("結果ファイル %s の解析に失敗しました: %w", path, err)
	}
	for i := range results {
		if results[i].Table == nil {
			results[i].Table = model.StandingsTable{}
		}
	}
	return results, nil
}
