package workspace

import "errors"

// 协作方边界错误分类。这些错误在控制器调用点被捕获并转换为状态栏消息，
// 从不向控制器之外传播。
// Collaborator-boundary error taxonomy. These are caught at the controller
// call sites and converted into status-line messages; they never unwind past
// the controller.
var (
	// ErrFileMissing 后备文件不存在 / backing file does not exist
	ErrFileMissing = errors.New("file missing")

	// ErrFileUnreadable 后备文件存在但读取失败 / backing file exists but cannot be read
	ErrFileUnreadable = errors.New("file unreadable")

	// ErrSaveDialogCancelled 用户取消了保存路径对话框 / user dismissed the save-path dialog
	ErrSaveDialogCancelled = errors.New("save dialog cancelled")

	// ErrWriteFailed 保存时写盘失败 / disk write failed during save
	ErrWriteFailed = errors.New("write failed")

	// ErrUnsupported 文件系统提供方不可用（非桌面环境）
	// ErrUnsupported means the filesystem provider is unavailable (non-desktop context)
	ErrUnsupported = errors.New("filesystem unsupported")
)
