package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a todolist directory",
	Long: `Creates a .todolist directory with a default config file in the current
directory (or --dir). Commands run anywhere below it use that directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("format", string(config.FormatYAML), "config file format (yaml, toml)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if config.Exists(absDir) {
		return clierr.Newf(clierr.AlreadyInitialized, "todolist already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	format := config.Format(formatFlag)
	if format != config.FormatYAML && format != config.FormatTOML {
		return clierr.Newf(clierr.InvalidInput, "invalid --format %q; valid: yaml, toml", formatFlag)
	}

	cfg, err := config.Init(absDir, format)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status": "initialized",
			"dir":    cfg.Dir(),
			"config": cfg.ConfigPath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized todolist in %s", cfg.Dir())
	output.Messagef(os.Stdout, "  Config: %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Hint:   add a task with: todolist add \"Buy milk\"")
	return nil
}
