package config

import "fmt"

// migrate upgrades cfg one version at a time until it reaches CurrentVersion.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade todolist)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}
	return nil
}

// migrations maps each version to the function that moves it one forward.
// Each function must increment cfg.Version.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
	2: migrateV2ToV3,
}

// migrateV1ToV2 adds the storage quota.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.Storage.Quota == 0 {
		cfg.Storage.Quota = DefaultQuota
	}
	cfg.Version = 2
	return nil
}

// migrateV2ToV3 adds the theme and log sections.
func migrateV2ToV3(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.Theme == "" {
		cfg.Theme = ThemeAuto
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Version = 3
	return nil
}
