package model

import "strings"

// LeagueDescriptorは入力ファイルの1件分のリーグ定義です。
// leagueNameがリーグの識別子になります。
type LeagueDescriptor struct {
	Country    string   `json:"country"`
	LeagueName string   `json:"leagueName"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// HasCoordinatesは緯度・経度の両方が設定されているかを返します。
func (d LeagueDescriptor) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}

// IsBlankはleagueNameが空文字かを返します。空のスロットはスキップ対象です。
// 空白だけの名前は空とみなさず、そのまま検索に使います。
func (d LeagueDescriptor) IsBlank() bool {
	return d.LeagueName == ""
}

// LeagueResultは1リーグ分のスクレイピング結果です。生成後は変更しません。
type LeagueResult struct {
	Country    string         `json:"country"`
	LeagueName string         `json:"leagueName"`
	Table      StandingsTable `json:"table"`
}

// NewLeagueResultはdescriptorとtableからLeagueResultを生成します。
func NewLeagueResult(d LeagueDescriptor, table StandingsTable) LeagueResult {
	if table == nil {
		table = StandingsTable{}
	}
	return LeagueResult{
		Country:    d.Country,
		LeagueName: d.LeagueName,
		Table:      table,
	}
}

// SafeFileNameはリーグ名からファイル名に使えない文字(: / \)を取り除きます。
func SafeFileName(leagueName string) string {
	r := strings.NewReplacer(":", "", "/", "", "\\", "")
	return r.Replace(leagueName)
}
