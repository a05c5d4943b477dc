package cmd

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/persist"
	"github.com/twiced-technology-gmbh/todolist/internal/tui"
	"github.com/twiced-technology-gmbh/todolist/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive UI",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	sess, err := openSession(noLock)
	if err != nil {
		return err
	}
	defer sess.close()

	// The program does not exist yet when the syncer is built; nothing is
	// scheduled before Run, so the callbacks never see a nil program.
	var p *tea.Program
	syncer := sess.newSyncer(
		persist.OnSaved(func(at time.Time) { p.Send(tui.SavedMsg{At: at}) }),
		persist.OnError(func(err error) { p.Send(tui.SaveFailedMsg{Err: err}) }),
	)

	model := tui.New(tui.Options{
		Store:     sess.store,
		Adapter:   sess.adapter,
		Syncer:    syncer,
		Journal:   sess.journal,
		Logger:    sess.logger,
		ExportDir: ".",
	})
	p = tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sess.cfg.Storage.Backend == config.BackendFile {
		go startTUIWatcher(ctx, sess, p)
	}

	sess.logger.Info("tui started", "dir", sess.cfg.Dir(), "tasks", sess.store.Len())
	_, err = p.Run()

	// Interrupted runs can still leave a write pending.
	syncer.Stop()
	if ferr := syncer.Flush(context.Background()); ferr != nil {
		warnf("could not save tasks: %v", ferr)
	}
	return err
}

func startTUIWatcher(ctx context.Context, sess *session, p *tea.Program) {
	w, err := watcher.New(sess.cfg.Dir(), persist.KeyFileNames(), 0, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		sess.logger.Warn("live reload disabled", "err", err)
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, func(err error) { sess.logger.Warn("watcher error", "err", err) })
}
