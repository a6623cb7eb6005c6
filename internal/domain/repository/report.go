package repository

import (
	"time"

	"github.com/nrad-K/go-standings/internal/domain/model"
)

// ReportSheetはスプレッドシート1枚分の出力内容です。
type ReportSheet struct {
	Date    time.Time
	League  model.LeagueDescriptor
	Table   model.StandingsTable
	Weather model.Weather
}

// ReportExporterはReportSheetをdir配下のファイルに書き出し、そのパスを返します。
type ReportExporter interface {
	Format() string
	Export(sheet ReportSheet, dir string) (string, error)
}
