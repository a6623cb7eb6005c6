package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/domain/repository"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/logger"
	"github.com/nrad-K/go-standings/internal/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var reportConfigPath string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "順位表に現在の天気を付けて、リーグごとにスプレッドシートを出力します",
	Long:  `standingsコマンドの結果を読み込み、入力ファイルの座標から現在の天気を取得して、リーグごとのフォルダにmeteo.jsonとスプレッドシート(xlsx / csv)を書き出します。`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		// .envが無い場合は環境変数をそのまま使う
		_ = godotenv.Load()

		// 設定ファイル読み込み
		cfg, err := config.LoadReportConfig(reportConfigPath)
		if err != nil {
			log.Fatalf("設定ファイルの読み込みに失敗: %v", err)
		}

		if err := runReport(ctx, cfg); err != nil {
			stop()
			log.Fatalf("レポートの出力中にエラーが発生しました: %v", err)
		}
	},
}

func runReport(ctx context.Context, cfg config.ReportConfig) error {
	// logger初期化
	appLogger := newAppLogger(cfg.Log)

	cache, closeCache, err := newWeatherCache(ctx, cfg.Weather.Cache, appLogger)
	if err != nil {
		return err
	}
	defer closeCache()

	exporters := make([]repository.ReportExporter, 0, len(cfg.Formats))
	for _, f := range cfg.Formats {
		switch f {
		case config.FormatXLSX:
			exporters = append(exporters, infra.NewExcelExporter())
		case config.FormatCSV:
			exporters = append(exporters, infra.NewCSVExporter())
		}
	}

	uc := usecase.NewLeagueReportUseCase(usecase.LeagueReportArgs{
		InputPath:   cfg.InputPath,
		ResultsPath: cfg.ResultsPath,
		DataDir:     cfg.DataDir,
		Concurrency: cfg.Concurrency,
		Source:      infra.NewLeagueFileLoader(),
		Store:       infra.NewResultJSONStore(),
		Weather: infra.NewWeatherClient(infra.WeatherClientArgs{
			Cfg:    &cfg.Weather,
			Cache:  cache,
			Logger: appLogger,
		}),
		Exporters: exporters,
		Logger:    appLogger,
	})

	entries, err := uc.Run(ctx)
	if len(entries) > 0 {
		printReportEntries(entries)
	}
	return err
}

// newWeatherCacheは、キャッシュ設定に応じた天気キャッシュを生成します。
// noneの場合はnilを返し、キャッシュしません。
func newWeatherCache(ctx context.Context, cfg config.WeatherCacheConfig, appLogger logger.AppLogger) (repository.WeatherCache, func(), error) {
	switch cfg.Driver {
	case config.CacheRedis:
		// Redisクライアント初期化
		rdb := redis.NewClient(&redis.Options{
			Addr:     os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		})
		// Redisへの接続を確認 (ping)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, func() {}, fmt.Errorf("Redisへの接続に失敗しました: %w", err)
		}
		appLogger.Info("Redisへの接続を確認しました")
		return infra.NewRedisWeatherCache(rdb, cfg.KeyPrefix), func() { rdb.Close() }, nil
	case config.CacheMemory:
		return infra.NewMemoryWeatherCache(), func() {}, nil
	default:
		return nil, func() {}, nil
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportConfigPath, "config", "c", "settings/report.yaml", "レポートの設定ファイル")
}
