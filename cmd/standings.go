package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/usecase"
	"github.com/spf13/cobra"
)

var standingsConfigPath string

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "ブラウザでリーグのページを巡回し、順位表をJSONに保存します",
	Long:  `入力ファイルのリーグを順番にサイト内検索で開き、順位表タブを有効にして順位表を抽出し、結果をJSONファイルに保存します。`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		// 設定ファイル読み込み
		cfg, err := config.LoadScraperConfig(standingsConfigPath)
		if err != nil {
			log.Fatalf("設定ファイルの読み込みに失敗: %v", err)
		}

		if err := runStandings(ctx, cfg); err != nil {
			stop()
			log.Fatalf("順位表の取得中にエラーが発生しました: %v", err)
		}
	},
}

func runStandings(ctx context.Context, cfg config.ScraperConfig) error {
	// logger初期化
	appLogger := newAppLogger(cfg.Log)

	// browser client初期化
	page, err := newPage(&cfg.Browser)
	if err != nil {
		return fmt.Errorf("ブラウザクライアントの初期化に失敗: %w", err)
	}
	defer page.Close()

	resolver := usecase.NewSelectorResolver(page, appLogger)
	navigator, err := usecase.NewLeagueNavigator(page, resolver, cfg.Navigation, appLogger)
	if err != nil {
		return err
	}
	tabs, err := usecase.NewTabActivatorFromConfig(page, resolver, cfg.Tab, appLogger)
	if err != nil {
		return err
	}
	extractor, err := usecase.NewTableExtractorFromConfig(page, resolver, cfg.Table, cfg.Extraction, appLogger)
	if err != nil {
		return err
	}

	walker := usecase.NewLeagueWalker(usecase.LeagueWalkerArgs{
		Page:        page,
		BaseURL:     cfg.BaseURL,
		Policy:      cfg.FailedLeaguePolicy,
		TabRequired: cfg.Tab.Required,
		Navigator:   navigator,
		Tabs:        tabs,
		Extractor:   extractor,
		Logger:      appLogger,
	})
	uc := usecase.NewStandingsUseCase(usecase.StandingsArgs{
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
		Source:     infra.NewLeagueFileLoader(),
		Walker:     walker,
		Store:      infra.NewResultJSONStore(),
		Logger:     appLogger,
	})

	runs, err := uc.Run(ctx)
	if len(runs) > 0 {
		printLeagueRuns(runs)
	}
	return err
}

func init() {
	rootCmd.AddCommand(standingsCmd)
	standingsCmd.Flags().StringVarP(&standingsConfigPath, "config", "c", "settings/scraper.yaml", "スクレイパーの設定ファイル")
}
