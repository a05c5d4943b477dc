package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"dir": {
			get: func(c *config.Config) any { return c.Dir() },
		},
		"storage.backend": {
			get: func(c *config.Config) any { return c.Storage.Backend },
			set: func(c *config.Config, v string) error {
				c.Storage.Backend = v
				return nil // validation handles allowed values
			},
			writable: true,
		},
		"storage.debounce": {
			get: func(c *config.Config) any { return c.Storage.Debounce },
			set: func(c *config.Config, v string) error {
				if _, err := time.ParseDuration(v); err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid storage.debounce %q: %v", v, err)
				}
				c.Storage.Debounce = v
				return nil
			},
			writable: true,
		},
		"storage.quota": {
			get: func(c *config.Config) any { return c.Storage.Quota },
			set: func(c *config.Config, v string) error {
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid storage.quota %q: must be a byte count", v)
				}
				c.Storage.Quota = n
				return nil
			},
			writable: true,
		},
		"tasks.default_category": {
			get: func(c *config.Config) any { return c.FallbackCategory() },
			set: func(c *config.Config, v string) error {
				if strings.TrimSpace(v) == "" {
					return clierr.New(clierr.InvalidInput, "tasks.default_category cannot be blank")
				}
				c.Tasks.DefaultCategory = strings.TrimSpace(v)
				return nil
			},
			writable: true,
		},
		"tasks.due_soon_days": {
			get: func(c *config.Config) any { return c.DueSoonDays() },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid tasks.due_soon_days %q: must be an integer", v)
				}
				c.Tasks.DueSoonDays = n
				return nil
			},
			writable: true,
		},
		"theme": {
			get: func(c *config.Config) any { return c.Theme },
			set: func(c *config.Config, v string) error {
				c.Theme = v
				return nil
			},
			writable: true,
		},
		"log.level": {
			get: func(c *config.Config) any { return c.Log.Level },
			set: func(c *config.Config, v string) error {
				c.Log.Level = strings.ToLower(v)
				return nil
			},
			writable: true,
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"dir",
		"storage.backend",
		"storage.debounce",
		"storage.quota",
		"tasks.default_category",
		"tasks.due_soon_days",
		"theme",
		"log.level",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-24s %v\n", key, accessors[key].get(cfg))
	}
	if !config.Exists(cfg.Dir()) {
		fmt.Fprintln(os.Stderr, "(defaults; no config file yet)")
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownConfigKey(key)
	}

	val := acc.get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, val)
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownConfigKey(key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.InvalidInput, err, "invalid value for %s", key)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", key, acc.get(cfg))
	return nil
}

func unknownConfigKey(key string) error {
	return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
		WithDetails(map[string]any{"key": key, "allowed": allConfigKeys()})
}
