package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/icons"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
)

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Show or set the colour theme",
	Long:      `Without an argument prints the saved theme. The theme selects the interactive UI palette and the markdown style used by 'show'.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "toggle"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(_ *cobra.Command, args []string) error {
	mode := readLock
	if len(args) == 1 {
		mode = writeLock
	}
	sess, err := openSession(mode)
	if err != nil {
		return err
	}
	defer sess.close()

	if len(args) == 1 {
		switch args[0] {
		case "dark":
			sess.store.SetThemeDark(true)
		case "light":
			sess.store.SetThemeDark(false)
		case "toggle":
			sess.store.ToggleTheme()
		default:
			return clierr.Newf(clierr.InvalidInput, "invalid theme %q", args[0]).
				WithDetails(map[string]any{"theme": args[0], "allowed": []string{"dark", "light", "toggle"}})
		}
	}

	name, icon := "light", icons.Get("sun")
	if sess.store.View().ThemeDark {
		name, icon = "dark", icons.Get("moon")
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"theme": name, "themeDark": sess.store.View().ThemeDark})
	}
	output.Messagef(os.Stdout, "%s Theme: %s", icon, name)
	return nil
}
