package model

import (
	"fmt"
	"strings"
)

// ResolutionFailureは候補ロケーターのどれも一致しなかったことを表します。
// 診断用に試行した候補をすべて保持します。
type ResolutionFailure struct {
	Candidates []string
}

func (e *ResolutionFailure) Error() string {
	return fmt.Sprintf("一致する要素が見つかりませんでした (候補: %s)", strings.Join(e.Candidates, " | "))
}

// TabNotFoundは順位表タブを有効化できなかったことを表します。
// 致命的かどうかは呼び出し側が判断します。
type TabNotFound struct {
	Tab   string
	Cause error
}

func (e *TabNotFound) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("タブ %s が見つかりませんでした", e.Tab)
	}
	return fmt.Sprintf("タブ %s が見つかりませんでした: %v", e.Tab, e.Cause)
}

func (e *TabNotFound) Unwrap() error {
	return e.Cause
}

// InputFormatErrorは入力ファイルの形式不正です。実行全体を中断します。
type InputFormatError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *InputFormatError) Error() string {
	msg := fmt.Sprintf("入力ファイル %s の形式が不正です: %s", e.Path, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InputFormatError) Unwrap() error {
	return e.Cause
}
