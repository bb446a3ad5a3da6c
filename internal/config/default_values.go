package config

const (
	DefaultDebounceMS    = 1000
	DefaultHistoryLimit  = 50
	DefaultDragThreshold = 2
)
