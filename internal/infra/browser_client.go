package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nrad-K/go-standings/internal/config"
	"github.com/playwright-community/playwright-go"
)

type browserClient struct {
	pw          *playwright.Playwright
	cfg         *config.BrowserConfig
	browser     playwright.Browser
	page        playwright.Page
	context     playwright.BrowserContext
	readTimeout float64
}

// NewBrowserClientは、Playwrightを用いたPageを生成します。
//
// args:
//
//	cfg: ブラウザ設定
//
// return:
//
//	Page: 生成されたクライアント
//	error: 失敗時のエラー
func NewBrowserClient(cfg *config.BrowserConfig) (Page, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("playwrightの起動に失敗しました: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.EnableHeadless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("ブラウザの起動に失敗しました: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		ExtraHttpHeaders: cfg.Headers,
		UserAgent:        &cfg.UserAgent,
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("ブラウザコンテキストの作成に失敗しました: %w", err)
	}

	if cfg.BlockResources {
		if err := setupResourceBlocking(context); err != nil {
			return nil, fmt.Errorf("リソースブロックの設定に失敗しました: %w", err)
		}
	}

	page, err := context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("ページの作成に失敗しました: %w", err)
	}

	return &browserClient{
		pw:          pw,
		browser:     browser,
		context:     context,
		page:        page,
		cfg:         cfg,
		readTimeout: float64(cfg.ReadTimeoutSeconds * 1000),
	}, nil
}

func setupResourceBlocking(context playwright.BrowserContext) error {
	return context.Route("**/*.{png,jpg,jpeg,gif,svg,woff,woff2,ttf,eot,otf}", func(route playwright.Route) {
		route.Abort()
	})
}

// Navigateは、指定したURLにブラウザを遷移させます。
//
// args:
//
//	url: 遷移先のURL
//
// return:
//
//	error: 失敗時のエラー
func (b *browserClient) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(b.cfg.NavigationTimeoutSeconds * 1000)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("ナビゲーションに失敗しました: %w", err)
	}
	return nil
}

// Countは、ロケーターに一致する要素数をその時点のスナップショットとして返します。
func (b *browserClient) Count(ctx context.Context, loc Locator) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := b.page.Locator(loc.String()).Count()
	if err != nil {
		return 0, fmt.Errorf("セレクター %s の要素数カウントに失敗しました: %w", loc, err)
	}
	return count, nil
}

// WaitVisibleは、ロケーターの要素がtimeout以内に可視になるまで待機します。
//
// args:
//
//	loc: 対象のロケーター(複数一致する場合は呼び出し側でFirstを指定する)
//	timeout: 待機時間
//
// return:
//
//	error: タイムアウト時はErrWaitTimeoutをラップしたエラー
func (b *browserClient) WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.page.Locator(loc.String()).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return fmt.Errorf("セレクター '%s' の可視状態待機に失敗しました: %w", loc, ErrWaitTimeout)
		}
		return fmt.Errorf("セレクター '%s' の可視状態待機に失敗しました: %w", loc, err)
	}
	return nil
}

// InnerTextは、要素の表示テキストを取得します。読み取りはread_timeout_secondsで打ち切ります。
func (b *browserClient) InnerText(ctx context.Context, loc Locator) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := b.page.Locator(loc.String()).InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(b.readTimeout),
	})
	if err != nil {
		return "", fmt.Errorf("テキストコンテンツの取得に失敗しました: %w", err)
	}
	return text, nil
}

// AllInnerTextsは、一致するすべての要素の表示テキストを文書順で返します。
func (b *browserClient) AllInnerTexts(ctx context.Context, loc Locator) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	texts, err := b.page.Locator(loc.String()).AllInnerTexts()
	if err != nil {
		return nil, fmt.Errorf("テキストの一括取得に失敗しました: %w", err)
	}
	return texts, nil
}

// Attributeは、要素の属性値を取得します。属性が無い場合は空文字を返します。
func (b *browserClient) Attribute(ctx context.Context, loc Locator, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	value, err := b.page.Locator(loc.String()).GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(b.readTimeout),
	})
	if err != nil {
		return "", fmt.Errorf("属性値の取得に失敗しました: %w", err)
	}
	return value, nil
}

// Clickは、指定したロケーターの要素をクリックします。
//
// args:
//
//	loc: クリック対象のロケーター
//
// return:
//
//	error: 失敗時のエラー
func (b *browserClient) Click(ctx context.Context, loc Locator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.page.Locator(loc.String()).Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(b.readTimeout),
	}); err != nil {
		return fmt.Errorf("%sのクリックに失敗しました: %w", loc, err)
	}
	return nil
}

// Fillは、入力欄に値を入力します。
func (b *browserClient) Fill(ctx context.Context, loc Locator, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.page.Locator(loc.String()).Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(b.readTimeout),
	}); err != nil {
		return fmt.Errorf("%sへの入力に失敗しました: %w", loc, err)
	}
	return nil
}

// Closeは、ブラウザとPlaywrightインスタンスを閉じます。
//
// args: なし
// return:
//
//	error: 失敗時のエラー
func (b *browserClient) Close() error {
	if err := b.context.Close(); err != nil {
		return fmt.Errorf("ブラウザコンテキストのクローズに失敗しました: %w", err)
	}

	if err := b.browser.Close(); err != nil {
		return fmt.Errorf("ブラウザを閉じれませんでした: %w", err)
	}

	if err := b.pw.Stop(); err != nil {
		return fmt.Errorf("playwrightの停止に失敗しました: %w", err)
	}
	return nil
}
