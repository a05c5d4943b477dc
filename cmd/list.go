package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks, newest first. Without --status the saved status filter
(see 'todolist filter') applies.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("status", "", "status filter ("+statusNames()+")")
	listCmd.Flags().StringP("category", "c", "", "only tasks in this category")
	listCmd.Flags().StringP("search", "s", "", "search task text and category (case-insensitive)")
	listCmd.Flags().String("group-by", "", "group results by field ("+strings.Join(derive.ValidGroupByFields(), ", ")+")")
	listCmd.Flags().String("sort", "", "sort by field ("+strings.Join(derive.ValidSortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func statusNames() string {
	names := make([]string, 0, len(derive.Statuses()))
	for _, s := range derive.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func runList(cmd *cobra.Command, _ []string) error {
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && !slices.Contains(derive.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(derive.ValidGroupByFields(), ", "))
	}

	sortBy, _ := cmd.Flags().GetString("sort")
	if sortBy != "" && !derive.IsSortField(sortBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(derive.ValidSortFields(), ", "))
	}

	sess, err := openSession(readLock)
	if err != nil {
		return err
	}
	defer sess.close()

	crit := sess.store.Criteria()
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		if crit.Status, err = derive.ParseStatus(v); err != nil {
			return err
		}
	}
	if v, _ := cmd.Flags().GetString("category"); v != "" {
		crit.Category = v
	}
	crit.Search, _ = cmd.Flags().GetString("search")

	c := sess.store.Classifier()
	tasks := derive.Filter(sess.store.Tasks(), crit, c)
	if sortBy != "" {
		reverse, _ := cmd.Flags().GetBool("reverse")
		derive.Sort(tasks, sortBy, reverse)
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}

	if groupBy != "" {
		return outputGroupedList(tasks, groupBy, c)
	}
	return outputTaskList(tasks, c)
}

func outputGroupedList(tasks []*task.Task, groupBy string, c derive.Classifier) error {
	grouped := derive.GroupBy(tasks, groupBy, c)
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, grouped)
	case output.FormatCompact:
		output.GroupedCompact(os.Stdout, grouped)
	default:
		output.GroupedTable(os.Stdout, grouped, c)
	}
	return nil
}

func outputTaskList(tasks []*task.Task, c derive.Classifier) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, output.TaskViews(tasks, c))
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks, c)
	default:
		output.TaskTable(os.Stdout, tasks, c)
	}
	return nil
}
