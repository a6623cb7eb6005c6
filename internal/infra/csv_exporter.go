package infra

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/nrad-K/go-standings/internal/constants"
	"github.com/nrad-K/go-standings/internal/domain/repository"
)

type CSVExporter struct{}

// NewCSVExporterは、.xlsxと同じレイアウトでCSVを書き出すエクスポーターを生成します。
func NewCSVExporter() repository.ReportExporter {
	return &CSVExporter{}
}

func (c *CSVExporter) Format() string {
	return "csv"
}

func (c *CSVExporter) Export(sheet repository.ReportSheet, dir string) (string, error) {
	path, err := reportFilePath(dir, sheet.League.LeagueName, ".csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("CSVファイルの作成に失敗しました: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	layout := buildReportLayout(sheet)

	records := [][]string{layout.header, formatCells(layout.values)}
	for len(records) < constants.ReportTableStartRow {
		records = append(records, []string{})
	}
	records = append(records, layout.tableHeader)
	for _, row := range layout.tableRows {
		records = append(records, formatCells(row))
	}

	if err := writer.WriteAll(records); err != nil {
		return "", fmt.Errorf("CSVの書き込みに失敗しました: %w", err)
	}
	return path, nil
}

func formatCells(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}
