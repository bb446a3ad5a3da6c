package session

import (
	"encoding/json"

	"tabedit/internal/storage"
)

// Geometry 窗口几何 blob（终端下仅作参考信息）
// Geometry is the window-geometry blob (advisory only in a terminal)
type Geometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SaveGeometry 写入窗口几何 / SaveGeometry persists the window geometry
func SaveGeometry(store storage.Store, g Geometry) error {
	if store == nil {
		return nil
	}
	blob, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return store.Set(storage.KeyWindow, string(blob))
}

// LoadGeometry 读取窗口几何；缺失或损坏返回 ok=false
// LoadGeometry reads the window geometry; ok=false when absent or corrupt
func LoadGeometry(store storage.Store) (Geometry, bool) {
	if store == nil {
		return Geometry{}, false
	}
	blob, ok, err := store.Get(storage.KeyWindow)
	if err != nil || !ok {
		return Geometry{}, false
	}
	var g Geometry
	if err := json.Unmarshal([]byte(blob), &g); err != nil {
		return Geometry{}, false
	}
	return g, true
}
