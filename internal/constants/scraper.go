package constants

// InputLeaguesKeyは入力ファイルでリーグ配列を格納するキーです。
const InputLeaguesKey = "footballFixturesAutomationInput"

const (
	// TopRowsToLogはレポート時にログへ出す上位の行数です。
	TopRowsToLog = 2
	// MeteoFileNameは天気データの出力ファイル名です。
	MeteoFileName = "meteo.json"
	// LeagueDirTimeLayoutはリーグごとの出力フォルダ名に付ける日時の書式です。
	LeagueDirTimeLayout = "2006-01-02 15-04"
)
