package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/logger"
	"github.com/nrad-K/go-standings/internal/usecase"
)

// newAppLoggerは、ログ設定に従ったロガーを実行IDを付けて生成します。
func newAppLogger(cfg config.LogConfig) logger.AppLogger {
	handler := logger.NewHandler(string(cfg.Format), cfg.Level, os.Stdout)
	return logger.NewAppLogger(slog.New(handler)).With("run_id", uuid.NewString())
}

// newPageは、設定されたドライバーでブラウザを起動します。
func newPage(cfg *config.BrowserConfig) (infra.Page, error) {
	switch cfg.Driver {
	case config.DriverChromedp:
		return infra.NewChromedpClient(cfg)
	case config.DriverPlaywright, "":
		return infra.NewBrowserClient(cfg)
	default:
		return nil, fmt.Errorf("未対応のブラウザドライバーです: %s", cfg.Driver)
	}
}

func printLeagueRuns(runs []model.LeagueRun) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Country", "League", "Status", "Rows", "Detail"})
	for i, r := range runs {
		t.AppendRow(table.Row{i + 1, r.Country, r.LeagueName, r.Status, r.Rows, r.Detail})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func printReportEntries(entries []usecase.ReportEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Country", "League", "Status", "Temperature [°C]", "Folder", "Detail"})
	for i, e := range entries {
		temp := "-"
		if e.Status == model.LeagueRunStatusSuccess || e.Status == model.LeagueRunStatusEmpty {
			temp = fmt.Sprintf("%.2f", e.TemperatureCelsius)
		}
		t.AppendRow(table.Row{i + 1, e.Country, e.LeagueName, e.Status, temp, e.Folder, e.Detail})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
