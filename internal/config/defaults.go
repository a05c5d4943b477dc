// Package config handles todolist configuration and data directory discovery.
package config

import "time"

const (
	// DefaultDir is the project-local data directory name looked for when
	// walking up from the working directory.
	DefaultDir = ".todolist"
	// AppName names the per-user directory under the user config dir.
	AppName = "todolist"
	// EnvDir overrides data directory discovery.
	EnvDir = "TODOLIST_DIR"

	// ConfigFileName is the YAML config file within the data directory.
	ConfigFileName = "config.yml"
	// TOMLConfigFileName is the alternative TOML config file.
	TOMLConfigFileName = "config.toml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3

	// BackendFile stores state as files in the data directory.
	BackendFile = "file"
	// BackendMemory keeps state for the lifetime of the process only.
	BackendMemory = "memory"

	// ThemeAuto picks the theme from the terminal background.
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"

	// DefaultDebounce is the quiet period before a durable write.
	DefaultDebounce = 500 * time.Millisecond
	// DefaultQuota caps the stored key files, mirroring browser storage limits.
	DefaultQuota int64 = 5 << 20
	// DefaultDueSoonDays is the due-soon window in days.
	DefaultDueSoonDays = 3
	// DefaultCategory labels tasks added without a category.
	DefaultCategory = "General"
	// DefaultLogLevel is the log level when none is configured.
	DefaultLogLevel = "info"
)

// Backends lists the valid storage.backend values.
var Backends = []string{BackendFile, BackendMemory}

// Themes lists the valid theme values.
var Themes = []string{ThemeAuto, ThemeDark, ThemeLight}

// LogLevels lists the valid log.level values.
var LogLevels = []string{"debug", "info", "warn", "error"}
