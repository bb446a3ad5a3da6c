package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type StorageConfig struct {
	BaseDir string `json:"base_dir"`
}

type EditorConfig struct {
	// DebounceMS 会话持久化防抖窗口 / session persistence debounce window
	DebounceMS int `json:"debounce_ms"`
	// HistoryLimit 文件历史容量上限 / file history capacity
	HistoryLimit int `json:"history_limit"`
	// DragThreshold 拖拽判定的最小横向位移（列）/ minimum horizontal travel (columns) before a press counts as a drag
	DragThreshold int `json:"drag_threshold"`
}

type UIConfig struct {
	Locale string `json:"locale"`
	Theme  string `json:"theme"`
}

type FilesConfig struct {
	ChecklistExts []string `json:"checklist_exts"`
	RichExts      []string `json:"rich_exts"`
}

type Config struct {
	Storage StorageConfig `json:"storage"`
	Editor  EditorConfig  `json:"editor"`
	UI      UIConfig      `json:"ui"`
	Files   FilesConfig   `json:"files"`
}

// fileConfig 指针字段区分"未设置"与零值，文件只覆盖出现的键
// fileConfig uses pointer fields to tell "absent" from zero; a file only
// overrides the keys it mentions
type fileEditorConfig struct {
	DebounceMS    *int `json:"debounce_ms"`
	HistoryLimit  *int `json:"history_limit"`
	DragThreshold *int `json:"drag_threshold"`
}

type fileConfig struct {
	Storage *StorageConfig    `json:"storage"`
	Editor  *fileEditorConfig `json:"editor"`
	UI      *UIConfig         `json:"ui"`
	Files   *FilesConfig      `json:"files"`
}

func Default() Config {
	return Config{
		Storage: StorageConfig{BaseDir: "~/.tabedit"},
		Editor: EditorConfig{
			DebounceMS:    DefaultDebounceMS,
			HistoryLimit:  DefaultHistoryLimit,
			DragThreshold: DefaultDragThreshold,
		},
		UI: UIConfig{Theme: "dark"},
		Files: FilesConfig{
			ChecklistExts: []string{".todo", ".chk"},
			RichExts:      []string{".md", ".markdown"},
		},
	}
}

// Load 加载配置：默认值 → 全局 ~/.tabedit/config.json → 项目 .tabedit/config.json
// 或显式路径（TABEDIT_CONFIG_PATH 优先于入参）。
// Load builds the config: defaults, then the global ~/.tabedit/config.json,
// then the project .tabedit/config.json or an explicit path
// (TABEDIT_CONFIG_PATH wins over the argument).
func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("TABEDIT_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".tabedit", "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"tabedit.config.json",
		".tabedit/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Storage != nil {
		if strings.TrimSpace(fc.Storage.BaseDir) != "" {
			cfg.Storage.BaseDir = fc.Storage.BaseDir
		}
	}
	if fc.Editor != nil {
		if fc.Editor.DebounceMS != nil {
			cfg.Editor.DebounceMS = *fc.Editor.DebounceMS
		}
		if fc.Editor.HistoryLimit != nil {
			cfg.Editor.HistoryLimit = *fc.Editor.HistoryLimit
		}
		if fc.Editor.DragThreshold != nil {
			cfg.Editor.DragThreshold = *fc.Editor.DragThreshold
		}
	}
	if fc.UI != nil {
		if strings.TrimSpace(fc.UI.Locale) != "" {
			cfg.UI.Locale = fc.UI.Locale
		}
		if strings.TrimSpace(fc.UI.Theme) != "" {
			cfg.UI.Theme = fc.UI.Theme
		}
	}
	if fc.Files != nil {
		if len(fc.Files.ChecklistExts) > 0 {
			cfg.Files.ChecklistExts = normalizeExts(fc.Files.ChecklistExts)
		}
		if len(fc.Files.RichExts) > 0 {
			cfg.Files.RichExts = normalizeExts(fc.Files.RichExts)
		}
	}
}

func normalize(cfg *Config) error {
	if cfg.Editor.DebounceMS <= 0 {
		cfg.Editor.DebounceMS = DefaultDebounceMS
	}
	if cfg.Editor.HistoryLimit <= 0 {
		cfg.Editor.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.Editor.DragThreshold < 0 {
		cfg.Editor.DragThreshold = DefaultDragThreshold
	}
	if strings.TrimSpace(cfg.UI.Theme) == "" {
		cfg.UI.Theme = Default().UI.Theme
	}
	cfg.Files.ChecklistExts = normalizeExts(cfg.Files.ChecklistExts)
	cfg.Files.RichExts = normalizeExts(cfg.Files.RichExts)
	if len(cfg.Files.ChecklistExts) == 0 {
		cfg.Files.ChecklistExts = Default().Files.ChecklistExts
	}
	if len(cfg.Files.RichExts) == 0 {
		cfg.Files.RichExts = Default().Files.RichExts
	}

	baseDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	if baseDir == "" {
		baseDir, err = expandPath(Default().Storage.BaseDir)
		if err != nil {
			return err
		}
	}
	cfg.Storage.BaseDir = baseDir
	return nil
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("TABEDIT_STATE_DIR")); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("TABEDIT_LANG")); v != "" {
		cfg.UI.Locale = v
	}
	return cfg, normalize(&cfg)
}

// normalizeExts 扩展名统一为小写、带点、去重
// normalizeExts lowercases, dot-prefixes and dedupes extensions
func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := map[string]struct{}{}
	for _, e := range exts {
		trimmed := strings.ToLower(strings.TrimSpace(e))
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
