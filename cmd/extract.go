package cmd

import (
	"context"
	"log"

	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/usecase"
	"github.com/spf13/cobra"
)

var (
	extractConfigPath string
	extractHTMLPath   string
	extractMode       string
	extractOutputPath string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "保存済みのHTMLファイルから順位表を抽出します",
	Long:  `ローカルに保存されたHTMLファイル(またはディレクトリ配下の.htmlファイル)を解析し、設定されたセレクターに基づいて順位表を抽出し、結果をJSONファイルに保存します`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadScraperConfig(extractConfigPath)
		if err != nil {
			log.Fatalf("スクレイプの設定ファイルを読み込めませんでした: %v", err)
		}
		if extractMode != "" {
			cfg.Extraction.Mode = config.ExtractionMode(extractMode)
		}
		if extractOutputPath == "" {
			extractOutputPath = cfg.OutputPath
		}

		appLogger := newAppLogger(cfg.Log)

		sel, err := usecase.NewTableSelectors(cfg.Table)
		if err != nil {
			log.Fatalf("テーブル設定が不正です: %v", err)
		}
		strategy, err := usecase.NewExtractionStrategy(cfg.Extraction, sel, appLogger)
		if err != nil {
			log.Fatalf("抽出モードの設定が不正です: %v", err)
		}

		uc := usecase.NewExtractSnapshotsUseCase(usecase.SnapshotArgs{
			Loader: infra.NewHTMLFileLoader(),
			NewExtract: func(page infra.Page) usecase.TableExtraction {
				return usecase.NewTableExtractor(page, usecase.NewSelectorResolver(page, appLogger), sel, strategy, appLogger)
			},
			Store:  infra.NewResultJSONStore(),
			Logger: appLogger,
		})
		if _, err := uc.Run(context.Background(), extractHTMLPath, extractOutputPath); err != nil {
			log.Fatalf("抽出に失敗しました: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractConfigPath, "config", "c", "settings/scraper.yaml", "スクレイパーの設定ファイル")
	extractCmd.Flags().StringVar(&extractHTMLPath, "html", "", "HTMLファイルまたはディレクトリ")
	extractCmd.Flags().StringVar(&extractMode, "mode", "", "抽出モード(positional / header)。未指定は設定ファイルの値")
	extractCmd.Flags().StringVarP(&extractOutputPath, "output", "o", "", "出力するJSONファイル。未指定は設定ファイルのoutput_path")
	_ = extractCmd.MarkFlagRequired("html")
}
