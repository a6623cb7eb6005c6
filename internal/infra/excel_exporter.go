package infra

import (
	"fmt"

	"github.com/nrad-K/go-standings/internal/constants"
	"github.com/nrad-K/go-standings/internal/domain/repository"
	"github.com/xuri/excelize/v2"
)

type excelExporter struct{}

// NewExcelExporterは、リーグごとの.xlsxを書き出すエクスポーターを生成します。
func NewExcelExporter() repository.ReportExporter {
	return &excelExporter{}
}

func (e *excelExporter) Format() string {
	return "xlsx"
}

// Exportは、ヘッダー情報と順位表をLeagueDataシートに書き出します。
//
// args:
//
//	sheet: 出力内容
//	dir: 出力先ディレクトリ
//
// return:
//
//	string: 作成したファイルのパス
//	error: 失敗時のエラー
func (e *excelExporter) Export(sheet repository.ReportSheet, dir string) (string, error) {
	path, err := reportFilePath(dir, sheet.League.LeagueName, ".xlsx")
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	name := constants.ReportSheetName
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return "", fmt.Errorf("シート名の設定に失敗しました: %w", err)
	}

	layout := buildReportLayout(sheet)
	if err := setSheetRow(f, name, 1, toAnySlice(layout.header)); err != nil {
		return "", err
	}
	if err := setSheetRow(f, name, 2, layout.values); err != nil {
		return "", err
	}

	table := append([][]any{toAnySlice(layout.tableHeader)}, layout.tableRows...)
	for i, row := range table {
		if err := setSheetRow(f, name, constants.ReportTableStartRow+i+1, row); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("Excelファイル %s の保存に失敗しました: %w", path, err)
	}
	return path, nil
}

// setSheetRowはrow行目(1始まり)のA列から値を書き込みます。
func setSheetRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%d行目の書き込みに失敗しました: %w", row, err)
	}
	return nil
}

func toAnySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
