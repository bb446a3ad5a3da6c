package storage

// Store 持久化键值接口，会话/历史/窗口 blob 的底座。
// 仅提供 last-write-wins 语义，不跨键提供事务保证。
// Store is the persistent key/value interface backing the session, file
// history and window blobs. Last-write-wins only; no cross-key transactions.
type Store interface {
	// Get 读取键值；ok=false 表示键不存在 / Get reads a key; ok=false when absent
	Get(key string) (value string, ok bool, err error)

	// Set 覆盖写入 / Set overwrites the key
	Set(key, value string) error

	// Delete 删除键（不存在时静默）/ Delete removes the key (silent when absent)
	Delete(key string) error

	// 生命周期 / Lifecycle
	Close() error
}

// 既定的 blob 键 / Well-known blob keys
const (
	KeySession = "session"
	KeyHistory = "file_history"
	KeyWindow  = "window"
)
