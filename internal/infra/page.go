package infra

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrWaitTimeoutは要素が時間内に表示されなかったことを表します。
	ErrWaitTimeout = errors.New("要素の表示待機がタイムアウトしました")
	// ErrElementNotFoundは要素が存在しないことを表します。
	ErrElementNotFound = errors.New("要素が見つかりません")
	// ErrReadOnlyDocumentは保存済みHTMLに対して操作を行おうとしたことを表します。
	ErrReadOnlyDocument = errors.New("保存済みHTMLは操作できません")
)

// Pageはスクレイピングで利用するページ操作のインターフェースです。
// 実装はplaywright(browserClient)、chromedp(chromedpClient)、保存済みHTML(htmlDocument)の3つです。
type Page interface {
	Navigate(ctx context.Context, url string) error
	Count(ctx context.Context, loc Locator) (int, error)
	WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) error
	InnerText(ctx context.Context, loc Locator) (string, error)
	AllInnerTexts(ctx context.Context, loc Locator) ([]string, error)
	Attribute(ctx context.Context, loc Locator, name string) (string, error)
	Click(ctx context.Context, loc Locator) error
	Fill(ctx context.Context, loc Locator, value string) error
	Close() error
}

// NormalizeTextは前後の空白を取り除き、内部の連続する空白を1つにまとめます。
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
