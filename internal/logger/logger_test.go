package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler_JSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewAppLogger(slog.New(NewHandler("json", "info", &buf))).With("run_id", "abc")

	l.Debug("出力されない")
	l.Info("リーグを処理します", "league", "Ekstraklasa")

	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "リーグを処理します", entry["msg"])
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "Ekstraklasa", entry["league"])
}

func TestNewHandler_LevelFilter(t *testing.T) {
	tests := []struct {
		format string
		level  string
		debug  bool
	}{
		{"text", "", false},
		{"text", "debug", true},
		{"pretty", "debug", true},
		{"pretty", "warn", false},
	}
	for _, tt := range tests {
		t.Run(tt.format+"/"+tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewAppLogger(slog.New(NewHandler(tt.format, tt.level, &buf)))
			l.Debug("debug message")
			assert.Equal(t, tt.debug, buf.Len() > 0)
		})
	}
}
