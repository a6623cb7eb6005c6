package constants

const (
	ReportSheetName  = "LeagueData"
	ReportDateLayout = "02.01.2006"
	// ReportTableStartRowは順位表を書き出す行(0始まり)です。1行目ヘッダー、2行目値、3行目は空行になります。
	ReportTableStartRow = 3
)

// GetReportHeaderLabelsは、スプレッドシート先頭のヘッダー行を返します。
func GetReportHeaderLabels() []string {
	return []string{"Date", "Country", "LeagueName", "Latitude", "Longitude", "Temperature [°C]", "Temperature [°F]"}
}

// GetReportColumnRenamesは、順位表の列名を出力用に置き換える対応表を返します。
func GetReportColumnRenames() map[string]string {
	return map[string]string{
		"Team":    "Club",
		"Matches": "Games",
	}
}

// GetEmptyTableColumnsは、順位表が空の場合に出力する列名を返します。
func GetEmptyTableColumns() []string {
	return []string{"Club", "Games", "Points"}
}
