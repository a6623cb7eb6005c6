package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// HTMLFileLoaderは保存済みのページスナップショット(.html)を読み込みます。
type HTMLFileLoader struct{}

func NewHTMLFileLoader() *HTMLFileLoader {
	return &HTMLFileLoader{}
}

// LoadPageは、HTMLファイルを読み込んで読み取り専用のPageとして返します。
//
// args:
//
//	path: HTMLファイルのパス
//
// return:
//
//	Page: 読み込んだページ
//	error: 読み込みまたは解析に失敗した場合のエラー
func (f *HTMLFileLoader) LoadPage(path string) (Page, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("HTMLファイルの読み込みに失敗しました: %w", err)
	}
	defer file.Close()

	page, err := NewHTMLDocumentFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return page, nil
}

// ListHTMLFilePathsは、pathがディレクトリなら配下の.htmlファイルを再帰的に、ファイルならそれ自身を返します。
func (f *HTMLFileLoader) ListHTMLFilePaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("パス %s を参照できません: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var paths []string
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(p) == ".html" {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return paths, fmt.Errorf("ディレクトリの走査に失敗しました: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}
