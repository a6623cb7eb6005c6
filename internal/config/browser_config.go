package config

type BrowserDriver string

const (
	DriverPlaywright BrowserDriver = "playwright"
	DriverChromedp   BrowserDriver = "chromedp"
)

// BrowserConfigはブラウザの起動とページ操作に関する設定です。
type BrowserConfig struct {
	Driver                   BrowserDriver     `yaml:"driver" validate:"required,oneof=playwright chromedp"` // 使用するブラウザドライバー
	EnableHeadless           bool              `yaml:"enable_headless"`
	UserAgent                string            `yaml:"user_agent" validate:"required,min=1"`                // リクエストヘッダーに設定するUser-Agent
	Headers                  map[string]string `yaml:"headers"`                                             // リクエストに追加するカスタムヘッダー(playwrightのみ)
	BlockResources           bool              `yaml:"block_resources"`                                     // 画像・フォントの読み込みを止める
	NavigationTimeoutSeconds int               `yaml:"navigation_timeout_seconds" validate:"min=1,max=120"` // ページ遷移のタイムアウト(秒)
	ReadTimeoutSeconds       int               `yaml:"read_timeout_seconds" validate:"min=1,max=10"`        // テキスト取得やクリックのタイムアウト(秒)
}

// LogConfigはログ出力の設定です。
type LogConfig struct {
	Format string `yaml:"format" validate:"omitempty,oneof=text json pretty"` // 未指定はtext
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}
