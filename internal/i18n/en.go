package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// Tab bar
	"tab.untitled": "untitled-%d",
	"tab.dirty":    "*",

	// Status line - lifecycle
	"status.ready":          "Ready",
	"status.saved":          "Saved %s",
	"status.save_cancelled": "Save cancelled",
	"status.write_failed":   "Could not write %s: %s",
	"status.open_failed":    "Could not open %s",
	"status.file_missing":   "%s no longer exists on disk",
	"status.fs_unsupported": "File operations are not available here",
	"status.changed_disk":   "%s changed on disk",
	"status.restored":       "Restored %d tab(s)",
	"status.restore_stale":  "Recovered unsaved content for %s",

	// Confirmations
	"confirm.unsaved":     "Save changes to %s?",
	"confirm.yes":         "Yes",
	"confirm.no":          "No",
	"confirm.yes_to_all":  "Yes to all",
	"confirm.cancel":      "Cancel",
	"confirm.choice_hint": "y/n%s · esc cancel",

	// Prompts
	"prompt.open_path":  "Open file",
	"prompt.save_path":  "Save as",
	"prompt.link_text":  "Link text",
	"prompt.link_url":   "Link URL",
	"prompt.quick_open": "Quick open",

	// Quick open overlay
	"quickopen.empty": "No matching files",

	// Keybinding hints
	"keys.new":     "ctrl+n new",
	"keys.open":    "ctrl+o open",
	"keys.save":    "ctrl+s save",
	"keys.close":   "ctrl+w close",
	"keys.quick":   "ctrl+p files",
	"keys.switch":  "ctrl+←/→ switch",
	"keys.link":    "ctrl+k link",
	"keys.preview": "ctrl+e preview",
	"keys.quit":    "ctrl+q quit",

	// Errors (CLI surface)
	"error.config_load":  "Failed to load config: %s",
	"error.storage_open": "Failed to open state store: %s",
}
