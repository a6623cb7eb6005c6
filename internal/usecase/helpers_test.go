package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/logger"
	"github.com/stretchr/testify/require"
)

func discardLogger() logger.AppLogger {
	return logger.NewAppLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// pageRuleは、ロケーター文字列にmatchを含む操作が行われたときにページをhtmlへ差し替えます。
type pageRule struct {
	match string
	html  string
}

// fakePageは保存済みHTMLの上でクリックと入力を記録し、ルールに応じて内容を切り替えるPageです。
type fakePage struct {
	infra.Page
	t           *testing.T
	clicks      []string
	fills       []string
	navigated   []string
	navigateErr error
	onClick     []pageRule
	onFill      string
}

func newFakePage(t *testing.T, html string) *fakePage {
	t.Helper()
	p := &fakePage{t: t}
	p.load(html)
	return p
}

func (p *fakePage) load(html string) {
	p.t.Helper()
	doc, err := infra.NewHTMLDocument(html)
	require.NoError(p.t, err)
	p.Page = doc
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return p.navigateErr
}

func (p *fakePage) Click(ctx context.Context, loc infra.Locator) error {
	n, err := p.Count(ctx, loc)
	if err != nil {
		return err
	}
	if n == 0 {
		return infra.ErrElementNotFound
	}
	p.clicks = append(p.clicks, loc.String())
	for _, rule := range p.onClick {
		if strings.Contains(loc.String(), rule.match) {
			p.load(rule.html)
			break
		}
	}
	return nil
}

func (p *fakePage) Fill(ctx context.Context, loc infra.Locator, value string) error {
	n, err := p.Count(ctx, loc)
	if err != nil {
		return err
	}
	if n == 0 {
		return infra.ErrElementNotFound
	}
	p.fills = append(p.fills, value)
	if p.onFill != "" {
		p.load(p.onFill)
	}
	return nil
}

func testTableConfig() config.TableConfig {
	return config.TableConfig{
		Containers: []config.CandidateConfig{
			{Locator: "#tournament-table .ui-table", TimeoutSeconds: 1},
			{Locator: ".ui-table", TimeoutSeconds: 1},
		},
		Row:                    ".ui-table__row",
		Participant:            ".tableCellParticipant__name",
		Cell:                   ".table__cell",
		HeaderCell:             ".ui-table__header .ui-table__headerCell",
		HeaderModeCell:         ".ui-table__cell",
		SentinelTimeoutSeconds: 1,
	}
}
