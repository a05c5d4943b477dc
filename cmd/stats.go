package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/persist"
	"github.com/twiced-technology-gmbh/todolist/internal/watcher"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Long: `Prints total, active, completed, overdue and due-soon counts.
With --watch, reprints whenever another todolist process saves.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolP("watch", "w", false, "reprint on every change until interrupted")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		sess, err := openSession(readLock)
		if err != nil {
			return err
		}
		defer sess.close()
		return printStats(sess.store.Stats())
	}

	// Watching must not hold the session lock or writers would block.
	sess, err := openSession(noLock)
	if err != nil {
		return err
	}
	defer sess.close()
	if err := printStats(sess.store.Stats()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changed := make(chan struct{}, 1)
	w, err := watcher.New(sess.cfg.Dir(), persist.KeyFileNames(), 0, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", sess.cfg.Dir(), err)
	}
	defer w.Close()
	go w.Run(ctx, func(err error) { sess.logger.Warn("watcher error", "err", err) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			st, err := sess.adapter.Load(ctx)
			if err != nil {
				warnf("could not reload tasks: %v", err)
				continue
			}
			sess.store.Restore(st)
			if outputFormat() != output.FormatJSON {
				fmt.Fprintln(os.Stdout, "--", time.Now().Format(time.TimeOnly))
			}
			if err := printStats(sess.store.Stats()); err != nil {
				return err
			}
		}
	}
}

func printStats(s derive.Stats) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, s)
	case output.FormatCompact:
		output.StatsCompact(os.Stdout, s)
	default:
		output.StatsTable(os.Stdout, s)
	}
	return nil
}
