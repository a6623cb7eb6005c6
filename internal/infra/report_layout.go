package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nrad-K/go-standings/internal/constants"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/domain/repository"
)

// reportLayoutはスプレッドシート1枚分の行データです。
// 1行目: ヘッダー、2行目: 値、3行目: 空行、4行目以降: 順位表(先頭列は1始まりの番号)
type reportLayout struct {
	header      []string
	values      []any
	tableHeader []string
	tableRows   [][]any
}

func buildReportLayout(sheet repository.ReportSheet) reportLayout {
	w := sheet.Weather
	layout := reportLayout{
		header: constants.GetReportHeaderLabels(),
		values: []any{
			sheet.Date.Format(constants.ReportDateLayout),
			sheet.League.Country,
			sheet.League.LeagueName,
			fmt.Sprintf("%.2f", w.Latitude),
			fmt.Sprintf("%.2f", w.Longitude),
			w.CurrentWeather.TemperatureCelsius,
			w.CurrentWeather.TemperatureFahrenheit,
		},
	}

	if len(sheet.Table) == 0 {
		layout.tableHeader = append([]string{""}, constants.GetEmptyTableColumns()...)
		return layout
	}

	renames := constants.GetReportColumnRenames()
	columns := sheet.Table.Columns()
	layout.tableHeader = make([]string, 0, len(columns)+1)
	layout.tableHeader = append(layout.tableHeader, "")
	for _, col := range columns {
		if renamed, ok := renames[col]; ok {
			col = renamed
		}
		layout.tableHeader = append(layout.tableHeader, col)
	}

	for i, row := range sheet.Table {
		cells := make([]any, 0, len(columns)+1)
		cells = append(cells, i+1)
		for _, col := range columns {
			v, _ := row.Get(col)
			cells = append(cells, v)
		}
		layout.tableRows = append(layout.tableRows, cells)
	}
	return layout
}

// reportFilePathは、出力ディレクトリを作成してリーグ名からファイルパスを組み立てます。
func reportFilePath(dir, leagueName, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}
	return filepath.Join(dir, model.SafeFileName(leagueName)+ext), nil
}
