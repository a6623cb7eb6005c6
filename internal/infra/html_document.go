package infra

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type htmlDocument struct {
	doc *goquery.Document
}

// NewHTMLDocumentは、保存済みHTMLを読み取り専用のPageとして扱うための実装を生成します。
// ブラウザを起動せずに同じ抽出処理を実行できます。
//
// args:
//
//	html: 解析対象のHTML文字列
//
// return:
//
//	Page: 生成されたページ
//	error: HTMLの解析に失敗した場合のエラー
func NewHTMLDocument(html string) (Page, error) {
	return NewHTMLDocumentFromReader(strings.NewReader(html))
}

// NewHTMLDocumentFromReaderは、readerからHTMLを読み込んでPageを生成します。
func NewHTMLDocumentFromReader(r io.Reader) (Page, error) {
	document, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("HTMLの解析に失敗しました: %w", err)
	}
	return &htmlDocument{doc: document}, nil
}

// selectAllは、ロケーターの各ステップを順に評価して一致した要素を文書順で返します。
//
// 使用例:
//
//   - CSS("#tournament-table .ui-table").Find(".ui-table__row")
//     入力: <div id="tournament-table"><div class="ui-table"><div class="ui-table__row">...</div></div></div>
//     出力: ui-table__row の要素すべて
//
//   - Text("Tabela")
//     入力: <a class="tab"><span>Tabela</span></a>
//     出力: <span>Tabela</span> (最も内側の要素)
//
//   - CSS("a.searchResult").Nth(0)
//     出力: 文書順で最初のa.searchResult
func (h *htmlDocument) selectAll(loc Locator) *goquery.Selection {
	sel := h.doc.Selection
	for _, s := range loc.steps {
		switch s.kind {
		case stepCSS:
			sel = sel.Find(s.value)
		case stepText:
			sel = findByText(sel, s.value)
		case stepNth:
			sel = sel.Eq(s.nth)
		}
	}
	return sel
}

func findByText(scope *goquery.Selection, text string) *goquery.Selection {
	target := NormalizeText(text)
	return scope.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "script" || goquery.NodeName(s) == "style" {
			return false
		}
		if NormalizeText(s.Text()) != target {
			return false
		}
		// 子要素も一致する場合は最も内側の要素だけを残す
		inner := false
		s.Children().EachWithBreak(func(_ int, c *goquery.Selection) bool {
			if NormalizeText(c.Text()) == target {
				inner = true
				return false
			}
			return true
		})
		return !inner
	})
}

// isVisibleは、要素とその祖先がhidden属性やインラインスタイルで非表示になっていないかを判定します。
func isVisible(s *goquery.Selection) bool {
	for n := s.First(); n.Length() > 0; n = n.Parent() {
		if _, hidden := n.Attr("hidden"); hidden {
			return false
		}
		style, ok := n.Attr("style")
		if !ok {
			continue
		}
		compact := strings.ToLower(strings.ReplaceAll(style, " ", ""))
		if strings.Contains(compact, "display:none") || strings.Contains(compact, "visibility:hidden") {
			return false
		}
	}
	return true
}

func (h *htmlDocument) Navigate(ctx context.Context, url string) error {
	return fmt.Errorf("%s への遷移: %w", url, ErrReadOnlyDocument)
}

func (h *htmlDocument) Count(ctx context.Context, loc Locator) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return h.selectAll(loc).Length(), nil
}

// WaitVisibleは、静的なHTMLのため待機せずに現時点の状態を判定します。
func (h *htmlDocument) WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sel := h.selectAll(loc)
	if sel.Length() == 0 || !isVisible(sel) {
		return fmt.Errorf("セレクター '%s' の可視状態待機に失敗しました: %w", loc, ErrWaitTimeout)
	}
	return nil
}

func (h *htmlDocument) InnerText(ctx context.Context, loc Locator) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sel := h.selectAll(loc)
	if sel.Length() == 0 {
		return "", fmt.Errorf("セレクター '%s': %w", loc, ErrElementNotFound)
	}
	return NormalizeText(sel.First().Text()), nil
}

func (h *htmlDocument) AllInnerTexts(ctx context.Context, loc Locator) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	texts := []string{}
	h.selectAll(loc).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, NormalizeText(s.Text()))
	})
	return texts, nil
}

func (h *htmlDocument) Attribute(ctx context.Context, loc Locator, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sel := h.selectAll(loc)
	if sel.Length() == 0 {
		return "", fmt.Errorf("セレクター '%s': %w", loc, ErrElementNotFound)
	}
	value, _ := sel.First().Attr(name)
	return value, nil
}

func (h *htmlDocument) Click(ctx context.Context, loc Locator) error {
	return fmt.Errorf("%sのクリック: %w", loc, ErrReadOnlyDocument)
}

func (h *htmlDocument) Fill(ctx context.Context, loc Locator, value string) error {
	return fmt.Errorf("%sへの入力: %w", loc, ErrReadOnlyDocument)
}

func (h *htmlDocument) Close() error {
	return nil
}
