package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Store 是按 key 存取小段文本（JSON）的持久化接口。
//
// 约束：
// - Get 未命中返回 (nil, false, nil)
// - Delete 未命中不报错
// - 实现必须并发安全
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var ErrReadOnly = errors.New("kv: read-only")

var keyRE = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// cleanKey 限制 key 的字符集，避免文件后端出现路径穿越。
func cleanKey(k string) (string, error) {
	k = strings.TrimSpace(k)
	if k == "" {
		return "", fmt.Errorf("key 不能为空")
	}
	if !keyRE.MatchString(k) || strings.HasPrefix(k, ".") {
		return "", fmt.Errorf("非法 key：%q", k)
	}
	return k, nil
}

// Options 描述如何打开一个 Store。
type Options struct {
	Backend  string // file / sqlite / postgres
	Dir      string // file 后端的数据目录
	DSN      string // sqlite 文件路径或 postgres 连接串
	ReadOnly bool
}

// Open 按 Backend 打开对应实现；Backend 为空时使用 file。
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		s, err := NewFileStore(nil, opts.Dir, opts.ReadOnly)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite, BackendPostgres:
		s, err := OpenSQL(ctx, opts.Backend, opts.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("未知的 history.backend：%q", opts.Backend)
	}
}
