package model

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
)

// 固定キー(positionalモードで出力する列名)
const (
	KeyTeam    = "Team"
	KeyMatches = "Matches"
	KeyPoints  = "Points"
)

// Cellは順序付きの1セル(列名と値)です。
type Cell struct {
	Key   string
	Value string
}

// StandingsRowは列名からセル値への順序付きマッピングです。
// 列順をJSONやスプレッドシートへそのまま引き継ぐため、mapではなくスライスで保持します。
type StandingsRow []Cell

// NewStandingsRowはkeysとvaluesを対応付けて行を生成します。valuesが足りない場合は空文字で埋めます。
func NewStandingsRow(keys []string, values []string) StandingsRow {
	row := make(StandingsRow, 0, len(keys))
	for i, k := range keys {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		row = append(row, Cell{Key: k, Value: v})
	}
	return row
}

// Getは列名に対応する値を返します。
func (r StandingsRow) Get(key string) (string, bool) {
	for _, c := range r {
		if c.Key == key {
			return c.Value, true
		}
	}
	return "", false
}

// Keysは列名を順番に返します。
func (r StandingsRow) Keys() []string {
	keys := make([]string, 0, len(r))
	for _, c := range r {
		keys = append(keys, c.Key)
	}
	return keys
}

// MarshalJSONは列順を保ったJSONオブジェクトを出力します。HTML文字はエスケープしません。
func (r StandingsRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, c.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, c.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSONはJSONオブジェクトをキーの出現順で読み込みます。
// 値が文字列以外(数値など)の場合はJSON表現をそのまま文字列として保持します。
func (r *StandingsRow) UnmarshalJSON(data []byte) error {
	node, err := sonic.Get(data)
	if err != nil {
		return err
	}
	switch node.TypeSafe() {
	case ast.V_NULL:
		*r = nil
		return nil
	case ast.V_OBJECT:
	default:
		return fmt.Errorf("StandingsRowはJSONオブジェクトである必要があります: %s", data)
	}

	row := StandingsRow{}
	var cellErr error
	err = node.ForEach(func(path ast.Sequence, value *ast.Node) bool {
		v, err := cellValue(value)
		if err != nil {
			cellErr = fmt.Errorf("キー %s の値を読み込めませんでした: %w", *path.Key, err)
			return false
		}
		row = append(row, Cell{Key: *path.Key, Value: v})
		return true
	})
	if err != nil {
		return err
	}
	if cellErr != nil {
		return cellErr
	}

	*r = row
	return nil
}

func cellValue(node *ast.Node) (string, error) {
	switch node.TypeSafe() {
	case ast.V_OBJECT, ast.V_ARRAY:
		return node.Raw()
	default:
		// nullは空文字、数値と真偽値はJSON表現のまま
		return node.String()
	}
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := sonic.ConfigDefault.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// StandingsTableはページ上の順位順に並んだ行の列です。
type StandingsTable []StandingsRow

// Columnsは全行に現れる列名を最初に出現した順で返します。
func (t StandingsTable) Columns() []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, row := range t {
		for _, c := range row {
			if _, ok := seen[c.Key]; ok {
				continue
			}
			seen[c.Key] = struct{}{}
			columns = append(columns, c.Key)
		}
	}
	return columns
}

// Normalizeはすべての行がcolumnsと同じ列集合・列順を持つように揃えます。
// 行に存在しない列は空文字で補い、columnsに無い列は取り除きます。
func (t StandingsTable) Normalize(columns []string) StandingsTable {
	out := make(StandingsTable, 0, len(t))
	for _, row := range t {
		normalized := make(StandingsRow, 0, len(columns))
		for _, col := range columns {
			v, _ := row.Get(col)
			normalized = append(normalized, Cell{Key: col, Value: v})
		}
		out = append(out, normalized)
	}
	return out
}

// MarshalJSONはnilのテーブルを[]として出力します。
func (t StandingsTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := row.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
