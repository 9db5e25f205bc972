package logx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options 描述日志输出。File 为空时写到 Fallback（通常是 stderr）。
type Options struct {
	Level      string // debug / info / warn / error
	Format     string // text / json
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ParseLevel 解析日志级别；空串视为 info。
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("未知的日志级别：%q", s)
	}
}

// New 构造 logger。返回的 io.Closer 用于关闭滚动日志文件（写 Fallback 时为空操作）。
//
// 注意：永远不要把 stdout 作为 Fallback，stdout 留给 JSON 输出。
func New(opts Options, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      = fallback
		closer io.Closer = nopCloser{}
	)
	if f := strings.TrimSpace(opts.File); f != "" {
		lj := &lumberjack.Logger{
			Filename:   f,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   false,
		}
		w, closer = lj, lj
	}
	if w == nil {
		w = io.Discard
	}

	ho := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", FormatText:
		h = slog.NewTextHandler(w, ho)
	case FormatJSON:
		h = slog.NewJSONHandler(w, ho)
	default:
		return nil, nil, fmt.Errorf("未知的日志格式：%q", opts.Format)
	}
	return slog.New(h), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
