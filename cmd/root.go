package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmdは、アプリケーションのエントリーポイントとなるルートコマンドです。
var rootCmd = &cobra.Command{
	Use:   "go-standings",
	Short: "サッカーリーグの順位表を取得し、天気情報と合わせて出力するツールです。",
	Long: `go-standingsは、ブラウザでリーグのページを巡回して順位表をJSONに保存する機能(standings)、
保存済みのHTMLから順位表を抽出する機能(extract)、
順位表に現在の天気を付けてスプレッドシートに出力する機能(report)を提供します。`,
	SilenceUsage: true,
}

// Executeは、全てのサブコマンドをルートコマンドに追加し、フラグを適切に設定します。
// この関数はmain.main()から呼び出され、rootCmdに対して一度だけ実行される必要があります。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
