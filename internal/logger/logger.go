package logger

import (
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

type AppLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) AppLogger
}

type appLogger struct {
	logger *slog.Logger
}

func NewAppLogger(logger *slog.Logger) AppLogger {
	return &appLogger{
		logger: logger,
	}
}

// NewHandlerは、ログ形式に応じたslog.Handlerを生成します。
//
// args:
//
//	format: text / json / pretty (空はtext)
//	level: debug / info / warn / error (空はinfo)
//	w: 出力先
//
// return:
//
//	slog.Handler: 生成したハンドラー
func NewHandler(format, level string, w io.Writer) slog.Handler {
	lv := parseLevel(level)
	switch format {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})
	case "pretty":
		return charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			Level:           charmlog.Level(lv),
		})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *appLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *appLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *appLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *appLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Withは、属性を付与したロガーを返します。
func (l *appLogger) With(args ...any) AppLogger {
	return &appLogger{logger: l.logger.With(args...)}
}
