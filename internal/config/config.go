package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no todolist config found (run 'todolist init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Format is the on-disk encoding of a config file.
type Format string

// Config file formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Config is the todolist configuration.
type Config struct {
	Version int           `yaml:"version" toml:"version"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Tasks   TasksConfig   `yaml:"tasks" toml:"tasks"`
	Theme   string        `yaml:"theme" toml:"theme"`
	Log     LogConfig     `yaml:"log" toml:"log"`

	dir    string
	format Format
}

// StorageConfig selects and tunes the persistence backend.
type StorageConfig struct {
	Backend  string `yaml:"backend" toml:"backend"`
	Debounce string `yaml:"debounce" toml:"debounce"` // duration string, e.g. "500ms"
	Quota    int64  `yaml:"quota" toml:"quota"`       // bytes; 0 disables the check
}

// TasksConfig holds defaults applied to tasks.
type TasksConfig struct {
	DefaultCategory string `yaml:"default_category" toml:"default_category"`
	DueSoonDays     int    `yaml:"due_soon_days" toml:"due_soon_days"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version: CurrentVersion,
		Storage: StorageConfig{
			Backend:  BackendFile,
			Debounce: DefaultDebounce.String(),
			Quota:    DefaultQuota,
		},
		Tasks: TasksConfig{
			DefaultCategory: DefaultCategory,
			DueSoonDays:     DefaultDueSoonDays,
		},
		Theme:  ThemeAuto,
		Log:    LogConfig{Level: DefaultLogLevel},
		format: FormatYAML,
	}
}

// Dir returns the absolute data directory.
func (c *Config) Dir() string { return c.dir }

// SetDir sets the data directory.
func (c *Config) SetDir(dir string) { c.dir = dir }

// Format returns the encoding the config is saved in.
func (c *Config) Format() Format { return c.format }

// SetFormat sets the encoding used by Save.
func (c *Config) SetFormat(f Format) { c.format = f }

// ConfigPath returns the config file path for the current format.
func (c *Config) ConfigPath() string {
	if c.format == FormatTOML {
		return filepath.Join(c.dir, TOMLConfigFileName)
	}
	return filepath.Join(c.dir, ConfigFileName)
}

// LogPath returns the log file path.
func (c *Config) LogPath() string { return filepath.Join(c.dir, "todolist.log") }

// ActivityPath returns the activity journal path.
func (c *Config) ActivityPath() string { return filepath.Join(c.dir, "activity.jsonl") }

// LockPath returns the path of the lock file guarding read-modify-write cycles.
func (c *Config) LockPath() string { return filepath.Join(c.dir, ".lock") }

// DebounceDuration returns storage.debounce, or DefaultDebounce when unset.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Storage.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}

// DueSoonDays returns tasks.due_soon_days, or the default when unset.
func (c *Config) DueSoonDays() int {
	if c.Tasks.DueSoonDays <= 0 {
		return DefaultDueSoonDays
	}
	return c.Tasks.DueSoonDays
}

// FallbackCategory returns tasks.default_category, or the default when blank.
func (c *Config) FallbackCategory() string {
	if s := strings.TrimSpace(c.Tasks.DefaultCategory); s != "" {
		return s
	}
	return DefaultCategory
}

// InitialThemeDark reports the theme to start with when no theme has been
// stored yet. "auto" asks the terminal for its background colour.
func (c *Config) InitialThemeDark() bool {
	switch c.Theme {
	case ThemeDark:
		return true
	case ThemeLight:
		return false
	default:
		return termenv.HasDarkBackground()
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if !slices.Contains(Backends, c.Storage.Backend) {
		return fmt.Errorf("%w: storage.backend must be one of %s", ErrInvalid, strings.Join(Backends, ", "))
	}
	if c.Storage.Debounce != "" {
		d, err := time.ParseDuration(c.Storage.Debounce)
		if err != nil {
			return fmt.Errorf("%w: invalid storage.debounce %q: %w", ErrInvalid, c.Storage.Debounce, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: storage.debounce must be >= 0", ErrInvalid)
		}
	}
	if c.Storage.Quota < 0 {
		return fmt.Errorf("%w: storage.quota must be >= 0", ErrInvalid)
	}
	if c.Tasks.DueSoonDays < 0 {
		return fmt.Errorf("%w: tasks.due_soon_days must be >= 0", ErrInvalid)
	}
	if !slices.Contains(Themes, c.Theme) {
		return fmt.Errorf("%w: theme must be one of %s", ErrInvalid, strings.Join(Themes, ", "))
	}
	if !slices.Contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("%w: log.level must be one of %s", ErrInvalid, strings.Join(LogLevels, ", "))
	}
	return nil
}

// Save writes the config to its config file in its format.
func (c *Config) Save() error {
	var (
		data []byte
		err  error
	)
	if c.format == FormatTOML {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(c.dir, dirMode); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Init writes a default config into dir in the given format. It fails if a
// config already exists.
func Init(dir string, format Format) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if _, _, found := existingConfig(absDir); found {
		return nil, fmt.Errorf("config already exists in %s", absDir)
	}

	cfg := NewDefault()
	cfg.dir = absDir
	if format == FormatTOML {
		cfg.format = FormatTOML
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Exists reports whether dir holds a config file.
func Exists(dir string) bool {
	_, _, found := existingConfig(dir)
	return found
}

func existingConfig(dir string) (string, Format, bool) {
	if p := filepath.Join(dir, TOMLConfigFileName); fileExists(p) {
		return p, FormatTOML, true
	}
	if p := filepath.Join(dir, ConfigFileName); fileExists(p) {
		return p, FormatYAML, true
	}
	return "", "", false
}

// Load reads, migrates and validates the config in dir. config.toml wins
// over config.yml when both exist.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path, format, found := existingConfig(absDir)
	if !found {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if format == FormatTOML {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = absDir
	cfg.format = format

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads the config in dir, falling back to defaults when no
// config file exists yet.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.Is(err, ErrNotFound) {
		absDir, absErr := filepath.Abs(dir)
		if absErr != nil {
			return nil, fmt.Errorf("resolving path: %w", absErr)
		}
		cfg = NewDefault()
		cfg.dir = absDir
		return cfg, nil
	}
	return cfg, err
}

// ResolveDir picks the data directory: an explicit flag value, then
// $TODOLIST_DIR, then the nearest .todolist directory above startDir, then
// the per-user config directory, which is created if needed.
func ResolveDir(flagDir, startDir string) (string, error) {
	if flagDir != "" {
		return filepath.Abs(flagDir)
	}
	if env := os.Getenv(EnvDir); env != "" {
		return filepath.Abs(env)
	}
	if dir, ok := FindDir(startDir); ok {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return dir, nil
}

// FindDir walks upward from startDir looking for a .todolist directory.
func FindDir(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, DefaultDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
