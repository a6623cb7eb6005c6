package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// WriteJSONFileは、vをインデント付きのJSONとしてpathに書き出します。
// 親ディレクトリが無ければ作成します。非ASCII文字とHTML文字はエスケープしません。
//
// args:
//
//	path: 出力先ファイル
//	v: 書き出す値
//
// return:
//
//	error: 失敗時のエラー
func WriteJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	data, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("JSONへの変換に失敗しました: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("JSONファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}
