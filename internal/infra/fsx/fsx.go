package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// FS 在 afero.Fs 之上提供原子写入与类型冲突检测。
// 生产环境使用 OS()；测试可注入 afero.NewMemMapFs() 或包装后的 Fs 来模拟错误。
type FS struct {
	Fs afero.Fs
}

func New(fs afero.Fs) FS {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return FS{Fs: fs}
}

func OS() FS { return FS{Fs: afero.NewOsFs()} }

// PathTypeConflictError 表示目标路径类型冲突（例如期望文件但实际是目录）。
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("目标路径类型冲突：%q（期望 %s，实际 %s）", e.Path, e.Want, e.Got)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// CrossDeviceError 表示跨盘（EXDEV）导致的 rename 失败。
// 数据目录与临时文件总在同一目录下，出现该错误说明目录本身被挂载替换，直接失败。
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("跨盘移动失败（EXDEV）：%q -> %q：%v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename 封装 Fs.Rename，并把 EXDEV 显式标记为 CrossDeviceError。
func (f FS) Rename(src, dst string) error {
	if err := f.fs().Rename(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// ReadFile 读取文件；文件不存在时返回 (nil, false, nil)。
func (f FS) ReadFile(path string) ([]byte, bool, error) {
	b, err := afero.ReadFile(f.fs(), path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

// Remove 删除文件；不存在视为成功。
func (f FS) Remove(path string) error {
	if err := f.fs().Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// EnsureDir 确保 dir 存在且是目录；同名文件返回 *PathTypeConflictError。
func (f FS) EnsureDir(dir string) error {
	fi, err := f.fs().Stat(dir)
	if err == nil {
		if fi.IsDir() {
			return nil
		}
		return &PathTypeConflictError{Path: dir, Want: "dir", Got: "file"}
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return f.fs().MkdirAll(dir, 0o755)
}

// WriteFileAtomic 在 dir 下原子写入 name（临时文件 + rename），目标已存在则覆盖。
func (f FS) WriteFileAtomic(dir, name string, data []byte) error {
	dst := filepath.Join(filepath.Clean(dir), name)
	if fi, err := f.lstat(dst); err == nil && fi.IsDir() {
		return &PathTypeConflictError{Path: dst, Want: "file", Got: "dir"}
	}
	return f.writeFileAtomic(dir, name, data, 0o644)
}

func (f FS) writeFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	fs := f.fs()
	if err := f.EnsureDir(dir); err != nil {
		return err
	}

	dst := filepath.Join(dir, name)

	// 同目录临时文件，保证 rename 的原子性。
	tmp, err := afero.TempFile(fs, dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
	}()

	if err := writeAll(tmp, data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		return err
	}

	if err := f.Rename(tmpName, dst); err != nil {
		return err
	}

	_ = f.syncDirBestEffort(dir)
	return nil
}

func (f FS) lstat(path string) (os.FileInfo, error) {
	if ls, ok := f.fs().(afero.Lstater); ok {
		fi, _, err := ls.LstatIfPossible(path)
		return fi, err
	}
	return f.fs().Stat(path)
}

func (f FS) fs() afero.Fs {
	if f.Fs == nil {
		return afero.NewOsFs()
	}
	return f.Fs
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func (f FS) syncDirBestEffort(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := f.fs().Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
