package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/SagarThayat/movie-explorer-app/internal/infra/fsx"
)

// FileStore 把每个 key 存为 <Dir>/<key>.json（原子写入）。
type FileStore struct {
	fs       fsx.FS
	Dir      string
	ReadOnly bool
}

var _ Store = (*FileStore)(nil)

// NewFileStore 在 dir 下创建文件后端；fs 为 nil 时使用真实文件系统。
func NewFileStore(fs afero.Fs, dir string, readOnly bool) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("history.dir 不能为空")
	}
	return &FileStore{fs: fsx.New(fs), Dir: filepath.Clean(dir), ReadOnly: readOnly}, nil
}

// Path 返回 key 对应的文件路径。
func (s *FileStore) Path(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, k+".json"), nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, false, err
	}
	return s.fs.ReadFile(path)
}

func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	return s.fs.WriteFileAtomic(s.Dir, k+".json", value)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	return s.fs.Remove(path)
}

func (s *FileStore) Close() error { return nil }
