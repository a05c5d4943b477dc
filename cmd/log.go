package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
)

const defaultLogEntries = 20

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"history"},
	Short:   "Show recent task activity",
	Args:    cobra.NoArgs,
	RunE:    runLog,
}

func init() {
	logCmd.Flags().IntP("limit", "n", defaultLogEntries, "number of entries to show")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	n, _ := cmd.Flags().GetInt("limit")
	entries, err := activity.Open(cfg.ActivityPath()).Tail(n)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, entries)
	default:
		output.ActivityTable(os.Stdout, entries)
	}
	return nil
}
