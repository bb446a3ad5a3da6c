package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages is the Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// 标签栏
	"tab.untitled": "未命名-%d",
	"tab.dirty":    "*",

	// 状态栏 - 生命周期
	"status.ready":          "就绪",
	"status.saved":          "已保存 %s",
	"status.save_cancelled": "已取消保存",
	"status.write_failed":   "无法写入 %s: %s",
	"status.open_failed":    "无法打开 %s",
	"status.file_missing":   "%s 已不在磁盘上",
	"status.fs_unsupported": "当前环境不支持文件操作",
	"status.changed_disk":   "%s 在磁盘上被修改",
	"status.restored":       "已恢复 %d 个标签页",
	"status.restore_stale":  "已找回 %s 的未保存内容",

	// 确认框
	"confirm.unsaved":     "保存对 %s 的修改？",
	"confirm.yes":         "是",
	"confirm.no":          "否",
	"confirm.yes_to_all":  "全部保存",
	"confirm.cancel":      "取消",
	"confirm.choice_hint": "y/n%s · esc 取消",

	// 输入框
	"prompt.open_path":  "打开文件",
	"prompt.save_path":  "另存为",
	"prompt.link_text":  "链接文字",
	"prompt.link_url":   "链接地址",
	"prompt.quick_open": "快速打开",

	// 快速打开浮层
	"quickopen.empty": "没有匹配的文件",

	// 快捷键提示
	"keys.new":     "ctrl+n 新建",
	"keys.open":    "ctrl+o 打开",
	"keys.save":    "ctrl+s 保存",
	"keys.close":   "ctrl+w 关闭",
	"keys.quick":   "ctrl+p 文件",
	"keys.switch":  "ctrl+←/→ 切换",
	"keys.link":    "ctrl+k 链接",
	"keys.preview": "ctrl+e 预览",
	"keys.quit":    "ctrl+q 退出",

	// 错误（命令行）
	"error.config_load":  "加载配置失败: %s",
	"error.storage_open": "打开状态存储失败: %s",
}
