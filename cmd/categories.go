package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/output"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "List categories in use",
	Args:    cobra.NoArgs,
	RunE:    runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	sess, err := openSession(readLock)
	if err != nil {
		return err
	}
	defer sess.close()

	cats := sess.store.Categories()
	counts := make(map[string]int, len(cats))
	for _, t := range sess.store.Tasks() {
		counts[t.Category]++
	}

	switch outputFormat() {
	case output.FormatJSON:
		type entry struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		}
		entries := make([]entry, len(cats))
		for i, c := range cats {
			entries[i] = entry{Name: c, Count: counts[c]}
		}
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		for _, c := range cats {
			output.Messagef(os.Stdout, "%s\t%d", c, counts[c])
		}
	default:
		output.CategoryList(os.Stdout, cats, counts)
	}
	return nil
}
