package infra

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/nrad-K/go-standings/internal/constants"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/domain/repository"
)

type leagueFileLoader struct{}

// NewLeagueFileLoaderは、入力JSONからリーグ定義を読み込むローダーを生成します。
func NewLeagueFileLoader() repository.LeagueSource {
	return &leagueFileLoader{}
}

// Loadは、入力ファイルからリーグ定義の配列を読み込みます。
//
// 受け付ける形式:
//
//   - 配列そのもの: [{"country": "Poland", "leagueName": "Ekstraklasa"}]
//   - 既知のキーを持つオブジェクト: {"footballFixturesAutomationInput": [...]}
//   - それ以外のオブジェクト: 最初に現れた値を使う
//
// args:
//
//	path: 入力ファイルのパス
//
// return:
//
//	[]model.LeagueDescriptor: 読み込んだリーグ定義(nullの要素は空の定義になる)
//	error: 形式が不正な場合は*model.InputFormatError
func (l *leagueFileLoader) Load(path string) ([]model.LeagueDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("入力ファイルを読み込めませんでした: %w", err)
	}

	raw, err := resolveLeagueArray(data)
	if err != nil {
		return nil, &model.InputFormatError{Path: path, Reason: err.Error()}
	}

	var items []*model.LeagueDescriptor
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, &model.InputFormatError{Path: path, Reason: "リーグ定義を解析できません", Cause: err}
	}

	leagues := make([]model.LeagueDescriptor, 0, len(items))
	for _, item := range items {
		if item == nil {
			leagues = append(leagues, model.LeagueDescriptor{})
			continue
		}
		leagues = append(leagues, *item)
	}
	return leagues, nil
}

// resolveLeagueArrayは、入力JSONからリーグ配列にあたる部分を取り出します。
// オブジェクトの「最初の値」はキーの出現順で決まるため、mapを経由せずASTを順に走査します。
func resolveLeagueArray(data []byte) ([]byte, error) {
	if !sonic.Valid(data) {
		return nil, fmt.Errorf("JSONとして解析できません")
	}
	root, err := sonic.Get(data)
	if err != nil {
		return nil, fmt.Errorf("JSONとして解析できません: %w", err)
	}

	chosen := &root
	switch root.TypeSafe() {
	case ast.V_ARRAY:
	case ast.V_OBJECT:
		chosen, err = pickObjectValue(&root, constants.InputLeaguesKey)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("最上位は配列かオブジェクトである必要があります")
	}

	if chosen.TypeSafe() != ast.V_ARRAY {
		return nil, fmt.Errorf("リーグ定義が配列ではありません")
	}
	raw, err := chosen.Raw()
	if err != nil {
		return nil, fmt.Errorf("リーグ定義を取り出せません: %w", err)
	}
	return []byte(raw), nil
}

// pickObjectValueは、keyの値があればそれを、無ければ最初に現れた値を返します。
func pickObjectValue(root *ast.Node, key string) (*ast.Node, error) {
	if value := root.Get(key); value.Exists() {
		return value, nil
	}

	var first *ast.Node
	if err := root.ForEach(func(_ ast.Sequence, value *ast.Node) bool {
		first = value
		return false
	}); err != nil {
		return nil, err
	}
	if first == nil {
		return nil, fmt.Errorf("オブジェクトが空です")
	}
	return first, nil
}
