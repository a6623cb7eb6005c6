package infra

import (
	"fmt"
	"strconv"
	"strings"
)

type stepKind int

const (
	stepCSS stepKind = iota
	stepText
	stepNth
)

type locatorStep struct {
	kind  stepKind
	value string
	nth   int
}

// Locatorはページ要素を特定するための宣言的なクエリです。
// CSSセレクター、表示テキストの完全一致、nth指定をチェーンで組み合わせます。
// 文字列表現はplaywrightのセレクター構文(`css=... >> nth=0`)と互換です。
type Locator struct {
	steps []locatorStep
}

// CSSはCSSセレクターのLocatorを返します。
func CSS(selector string) Locator {
	return Locator{steps: []locatorStep{{kind: stepCSS, value: selector}}}
}

// Textは表示テキストが完全一致する要素のLocatorを返します。
func Text(text string) Locator {
	return Locator{steps: []locatorStep{{kind: stepText, value: text}}}
}

// Findは子孫要素をCSSセレクターで絞り込んだLocatorを返します。
func (l Locator) Find(selector string) Locator {
	return l.with(locatorStep{kind: stepCSS, value: selector})
}

// FindTextは子孫要素を表示テキストで絞り込んだLocatorを返します。
func (l Locator) FindText(text string) Locator {
	return l.with(locatorStep{kind: stepText, value: text})
}

// Nthは一致した要素のうちindex番目(0始まり、文書順)を指すLocatorを返します。
func (l Locator) Nth(index int) Locator {
	return l.with(locatorStep{kind: stepNth, nth: index})
}

// Firstは文書順で最初の要素を指すLocatorを返します。
func (l Locator) First() Locator {
	return l.Nth(0)
}

// Joinは子孫をrelのステップで絞り込んだLocatorを返します。
func (l Locator) Join(rel Locator) Locator {
	steps := make([]locatorStep, 0, len(l.steps)+len(rel.steps))
	steps = append(steps, l.steps...)
	steps = append(steps, rel.steps...)
	return Locator{steps: steps}
}

// IsZeroはステップを持たない空のLocatorかを返します。
func (l Locator) IsZero() bool {
	return len(l.steps) == 0
}

func (l Locator) with(s locatorStep) Locator {
	steps := make([]locatorStep, 0, len(l.steps)+1)
	steps = append(steps, l.steps...)
	steps = append(steps, s)
	return Locator{steps: steps}
}

// Stringはplaywrightのセレクター文字列を返します。
func (l Locator) String() string {
	parts := make([]string, 0, len(l.steps))
	for _, s := range l.steps {
		switch s.kind {
		case stepCSS:
			parts = append(parts, "css="+s.value)
		case stepText:
			parts = append(parts, "text="+strconv.Quote(s.value))
		case stepNth:
			parts = append(parts, fmt.Sprintf("nth=%d", s.nth))
		}
	}
	return strings.Join(parts, " >> ")
}

// ParseLocatorはplaywright形式のセレクター文字列をLocatorに変換します。
//
// 使用例:
//
//   - "css=#tournament-table .ui-table"
//   - "text=Tabela" / `text="I Accept"`
//   - "css=.searchResults a.searchResult >> nth=0"
//   - ".ui-table__row" (接頭辞なしはCSSとして扱う)
//
// args:
//
//	raw: セレクター文字列
//
// return:
//
//	Locator: 変換結果
//	error: 構文が不正な場合のエラー
func ParseLocator(raw string) (Locator, error) {
	var loc Locator
	for _, part := range strings.Split(raw, ">>") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Locator{}, fmt.Errorf("セレクター %q に空の要素があります", raw)
		}

		switch {
		case strings.HasPrefix(part, "nth="):
			if loc.IsZero() {
				return Locator{}, fmt.Errorf("セレクター %q はnthから始められません", raw)
			}
			n, err := strconv.Atoi(strings.TrimPrefix(part, "nth="))
			if err != nil || n < 0 {
				return Locator{}, fmt.Errorf("セレクター %q のnthが不正です", raw)
			}
			loc = loc.Nth(n)
		case strings.HasPrefix(part, "text="):
			text := unquote(strings.TrimPrefix(part, "text="))
			if text == "" {
				return Locator{}, fmt.Errorf("セレクター %q のtextが空です", raw)
			}
			loc = loc.with(locatorStep{kind: stepText, value: text})
		case strings.HasPrefix(part, "css="):
			css := strings.TrimSpace(strings.TrimPrefix(part, "css="))
			if css == "" {
				return Locator{}, fmt.Errorf("セレクター %q のcssが空です", raw)
			}
			loc = loc.with(locatorStep{kind: stepCSS, value: css})
		default:
			loc = loc.with(locatorStep{kind: stepCSS, value: part})
		}
	}
	return loc, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
