package kv

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLStore 把 key/value 存在 kv_entries 表中（sqlite 或 postgres）。
type SQLStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLStore)(nil)

// 连接阶段的重试：postgres 容器刚启动时常见短暂的 connection refused。
const (
	pingAttempts = 3
	pingDelay    = 300 * time.Millisecond
)

// OpenSQL 打开数据库、确认连通并执行内置迁移。backend 为 "sqlite" 或 "postgres"。
func OpenSQL(ctx context.Context, backend, dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("history.dsn 不能为空")
	}

	var (
		driver  string
		dialect goose.Dialect
	)
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendSQLite:
		driver, dialect = "sqlite3", goose.DialectSQLite3
	case BackendPostgres:
		driver, dialect = "postgres", goose.DialectPostgres
	default:
		return nil, fmt.Errorf("不支持的 SQL backend：%q", backend)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败：%w", err)
	}
	if driver == "sqlite3" {
		// sqlite 单写者；多连接并发写会出现 database is locked。
		db.SetMaxOpenConns(1)
	}

	err = retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(pingAttempts),
		retry.Delay(pingDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("连接数据库失败：%w", err)
	}

	if err := migrate(ctx, db.DB, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	p, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("初始化迁移失败：%w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("执行迁移失败：%w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k, err := cleanKey(key)
	if err != nil {
		return nil, false, err
	}
	var v string
	err = s.db.GetContext(ctx, &v, s.db.Rebind(`SELECT value FROM kv_entries WHERE name = ?`), k)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取 %q 失败：%w", k, err)
	}
	return []byte(v), true, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	q := s.db.Rebind(`INSERT INTO kv_entries (name, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, q, k, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("写入 %q 失败：%w", k, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM kv_entries WHERE name = ?`), k); err != nil {
		return fmt.Errorf("删除 %q 失败：%w", k, err)
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }
