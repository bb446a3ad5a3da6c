package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"tabedit/internal/workspace"
)

// AferoFS afero 适配的文件系统提供方；测试使用内存后端
// AferoFS is the afero-backed filesystem provider; tests use the memory backend
type AferoFS struct {
	fs afero.Fs
}

// NewOS 真实磁盘后端 / NewOS uses the real disk backend
func NewOS() *AferoFS {
	return &AferoFS{fs: afero.NewOsFs()}
}

// NewMem 内存后端 / NewMem uses the in-memory backend
func NewMem() *AferoFS {
	return &AferoFS{fs: afero.NewMemMapFs()}
}

// Exists 探测路径 / Exists probes a path
func (a *AferoFS) Exists(path string) (bool, error) {
	ok, err := afero.Exists(a.fs, path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return ok, nil
}

// ReadText 读取全文 / ReadText reads the whole file
func (a *AferoFS) ReadText(path string) (string, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", workspace.ErrFileMissing, path)
		}
		return "", fmt.Errorf("%w: %s", workspace.ErrFileUnreadable, path)
	}
	return string(data), nil
}

// WriteText 覆盖写入，父目录不存在则创建
// WriteText overwrites the file, creating the parent directory when needed
func (a *AferoFS) WriteText(path, content string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := a.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(a.fs, path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Delete 删除文件 / Delete removes the file
func (a *AferoFS) Delete(path string) error {
	if err := a.fs.Remove(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// NullFS 非桌面环境的降级提供方：一切操作返回"不支持"，由控制器转换
// 为用户可见的状态提示，而不是崩溃。
// NullFS is the degraded provider for non-desktop contexts: every call
// reports "unsupported", which the controller converts into a user-visible
// status notice instead of crashing.
type NullFS struct{}

func (NullFS) Exists(string) (bool, error)     { return false, workspace.ErrUnsupported }
func (NullFS) ReadText(string) (string, error) { return "", workspace.ErrUnsupported }
func (NullFS) WriteText(string, string) error  { return workspace.ErrUnsupported }
func (NullFS) Delete(string) error             { return workspace.ErrUnsupported }
