package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/chromedp/chromedp"
	"github.com/nrad-K/go-standings/internal/config"
)

const visiblePollInterval = 100 * time.Millisecond

type chromedpClient struct {
	cfg           *config.BrowserConfig
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	readTimeout   time.Duration
}

// NewChromedpClientは、chromedpを用いたPageを生成します。
// 要素の特定はすべてロケーターのステップをJavaScriptで評価して行います。
//
// args:
//
//	cfg: ブラウザ設定
//
// return:
//
//	Page: 生成されたクライアント
//	error: ブラウザの起動に失敗した場合のエラー
func NewChromedpClient(cfg *config.BrowserConfig) (Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("headless", cfg.EnableHeadless),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if cfg.BlockResources {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// ブラウザを起動しておく
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("ブラウザの起動に失敗しました: %w", err)
	}

	return &chromedpClient{
		cfg:           cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		readTimeout:   time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
	}, nil
}

// runは、呼び出し側のctxのキャンセルとtimeoutをブラウザのコンテキストに反映してアクションを実行します。
func (c *chromedpClient) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(c.browserCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

type jsStep struct {
	Kind  string `json:"k"`
	Value string `json:"v,omitempty"`
	Nth   int    `json:"n,omitempty"`
}

// locatorScriptは、ロケーターを評価して一致要素の配列を返すJavaScript式を生成します。
func locatorScript(loc Locator) (string, error) {
	steps := make([]jsStep, 0, len(loc.steps))
	for _, s := range loc.steps {
		switch s.kind {
		case stepCSS:
			steps = append(steps, jsStep{Kind: "css", Value: s.value})
		case stepText:
			steps = append(steps, jsStep{Kind: "text", Value: NormalizeText(s.value)})
		case stepNth:
			steps = append(steps, jsStep{Kind: "nth", Nth: s.nth})
		}
	}
	encoded, err := sonic.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("ロケーターのエンコードに失敗しました: %w", err)
	}

	return fmt.Sprintf(`
	((steps) => {
		const norm = (s) => (s || "").replace(/\s+/g, " ").trim();
		const text = (e) => norm(e.innerText !== undefined ? e.innerText : e.textContent);
		const byDocOrder = (a, b) => (a.compareDocumentPosition(b) & Node.DOCUMENT_POSITION_FOLLOWING) ? -1 : 1;
		let scopes = [document];
		for (const st of steps) {
			if (st.k === "nth") {
				scopes = st.n < scopes.length ? [scopes[st.n]] : [];
				continue;
			}
			const found = new Set();
			for (const scope of scopes) {
				if (st.k === "css") {
					scope.querySelectorAll(st.v).forEach((e) => found.add(e));
					continue;
				}
				scope.querySelectorAll("*").forEach((e) => {
					if (e.tagName === "SCRIPT" || e.tagName === "STYLE" || text(e) !== st.v) return;
					for (const child of e.children) {
						if (text(child) === st.v) return;
					}
					found.add(e);
				});
			}
			scopes = Array.from(found).sort(byDocOrder);
		}
		return scopes.filter((e) => e !== document);
	})(%s)`, encoded), nil
}

// evaluateは、ロケーターの一致要素配列に対してbodyの式を評価します。bodyの中では変数elsが使えます。
func (c *chromedpClient) evaluate(ctx context.Context, loc Locator, body string, res any) error {
	script, err := locatorScript(loc)
	if err != nil {
		return err
	}
	expr := fmt.Sprintf(`(() => { const els = %s; %s })()`, script, body)
	return c.run(ctx, c.readTimeout, chromedp.Evaluate(expr, res))
}

func (c *chromedpClient) Navigate(ctx context.Context, url string) error {
	timeout := time.Duration(c.cfg.NavigationTimeoutSeconds) * time.Second
	if err := c.run(ctx, timeout, chromedp.Navigate(url), chromedp.WaitReady("body")); err != nil {
		return fmt.Errorf("ナビゲーションに失敗しました: %w", err)
	}
	return nil
}

func (c *chromedpClient) Count(ctx context.Context, loc Locator) (int, error) {
	var count int
	if err := c.evaluate(ctx, loc, `return els.length;`, &count); err != nil {
		return 0, fmt.Errorf("セレクター %s の要素数カウントに失敗しました: %w", loc, err)
	}
	return count, nil
}

// WaitVisibleは、最初の一致要素が可視になるまでポーリングします。
func (c *chromedpClient) WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) error {
	const body = `
		if (els.length === 0) return false;
		const e = els[0];
		const style = window.getComputedStyle(e);
		if (style.visibility === "hidden" || style.display === "none") return false;
		return !!(e.offsetWidth || e.offsetHeight || e.getClientRects().length);`

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(visiblePollInterval)
	defer ticker.Stop()

	for {
		var visible bool
		if err := c.evaluate(ctx, loc, body, &visible); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("セレクター '%s' の可視状態確認に失敗しました: %w", loc, err)
		}
		if visible {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("セレクター '%s' の可視状態待機に失敗しました: %w", loc, ErrWaitTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type evalText struct {
	Found bool   `json:"found"`
	Text  string `json:"text"`
}

func (c *chromedpClient) InnerText(ctx context.Context, loc Locator) (string, error) {
	var res evalText
	if err := c.evaluate(ctx, loc, `
		if (els.length === 0) return { found: false, text: "" };
		return { found: true, text: els[0].innerText || "" };`, &res); err != nil {
		return "", fmt.Errorf("テキストコンテンツの取得に失敗しました: %w", err)
	}
	if !res.Found {
		return "", fmt.Errorf("セレクター '%s': %w", loc, ErrElementNotFound)
	}
	return res.Text, nil
}

func (c *chromedpClient) AllInnerTexts(ctx context.Context, loc Locator) ([]string, error) {
	texts := []string{}
	if err := c.evaluate(ctx, loc, `return els.map((e) => e.innerText || "");`, &texts); err != nil {
		return nil, fmt.Errorf("テキストの一括取得に失敗しました: %w", err)
	}
	return texts, nil
}

func (c *chromedpClient) Attribute(ctx context.Context, loc Locator, name string) (string, error) {
	quoted, err := sonic.MarshalString(name)
	if err != nil {
		return "", fmt.Errorf("属性名のエンコードに失敗しました: %w", err)
	}
	var res evalText
	if err := c.evaluate(ctx, loc, fmt.Sprintf(`
		if (els.length === 0) return { found: false, text: "" };
		return { found: true, text: els[0].getAttribute(%s) || "" };`, quoted), &res); err != nil {
		return "", fmt.Errorf("属性値の取得に失敗しました: %w", err)
	}
	if !res.Found {
		return "", fmt.Errorf("セレクター '%s': %w", loc, ErrElementNotFound)
	}
	return res.Text, nil
}

func (c *chromedpClient) Click(ctx context.Context, loc Locator) error {
	var found bool
	if err := c.evaluate(ctx, loc, `
		if (els.length === 0) return false;
		els[0].scrollIntoView({ block: "center" });
		els[0].click();
		return true;`, &found); err != nil {
		return fmt.Errorf("%sのクリックに失敗しました: %w", loc, err)
	}
	if !found {
		return fmt.Errorf("%sのクリックに失敗しました: %w", loc, ErrElementNotFound)
	}
	return nil
}

func (c *chromedpClient) Fill(ctx context.Context, loc Locator, value string) error {
	quoted, err := sonic.MarshalString(value)
	if err != nil {
		return fmt.Errorf("入力値のエンコードに失敗しました: %w", err)
	}
	var found bool
	if err := c.evaluate(ctx, loc, fmt.Sprintf(`
		if (els.length === 0) return false;
		const e = els[0];
		e.focus();
		e.value = %s;
		e.dispatchEvent(new Event("input", { bubbles: true }));
		e.dispatchEvent(new Event("change", { bubbles: true }));
		return true;`, quoted), &found); err != nil {
		return fmt.Errorf("%sへの入力に失敗しました: %w", loc, err)
	}
	if !found {
		return fmt.Errorf("%sへの入力に失敗しました: %w", loc, ErrElementNotFound)
	}
	return nil
}

// Closeは、タブとブラウザプロセスを終了します。
func (c *chromedpClient) Close() error {
	c.browserCancel()
	c.allocCancel()
	return nil
}
