package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/filelock"
	"github.com/twiced-technology-gmbh/todolist/internal/logging"
	"github.com/twiced-technology-gmbh/todolist/internal/persist"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
)

// lockMode says how a session coordinates with other processes.
type lockMode int

const (
	noLock    lockMode = iota // long-lived sessions (the TUI)
	readLock                  // shared lock for queries
	writeLock                 // exclusive lock for read-modify-write commands
	replaceLock               // exclusive lock for commands that overwrite every task
)

// writes reports whether sessions in this mode save on close.
func (m lockMode) writes() bool {
	return m == writeLock || m == replaceLock
}

// session is one command's view of the data directory: config, logger,
// rehydrated store and, for writers, a syncer flushed on close.
type session struct {
	cfg     *config.Config
	store   *store.Store
	adapter persist.Adapter
	syncer  *persist.Syncer
	journal *activity.Journal
	logger  *log.Logger

	lock      *filelock.Lock
	logCloser io.Closer
}

// resolveDir returns the absolute path to the data directory.
func resolveDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.ResolveDir(flagDir, cwd)
}

// loadConfig finds and loads the config, falling back to defaults.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, clierr.Wrap(clierr.InvalidInput, err, "loading config")
	}
	return cfg, nil
}

func openSession(mode lockMode) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newSession(cfg, mode)
}

func newSession(cfg *config.Config, mode lockMode) (*session, error) {
	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger, closer, err := logging.Open(cfg.LogPath(), level)
	if err != nil {
		if flagLogLevel != "" {
			return nil, clierr.Wrap(clierr.InvalidInput, err, "invalid --log-level")
		}
		warnf("logging disabled: %v", err)
		logger, closer = logging.Discard(), nopCloser{}
	}

	s := &session{
		cfg:       cfg,
		adapter:   newAdapter(cfg),
		journal:   activity.Open(cfg.ActivityPath()),
		logger:    logger,
		logCloser: closer,
		store: store.New(
			store.WithFallbackCategory(cfg.FallbackCategory()),
			store.WithDueSoonDays(cfg.DueSoonDays()),
		),
	}

	if mode != noLock {
		lm := filelock.Shared
		if mode.writes() {
			lm = filelock.Exclusive
		}
		s.lock, err = filelock.Acquire(cfg.LockPath(), lm)
		if err != nil {
			_ = closer.Close()
			return nil, fmt.Errorf("acquiring lock: %w", err)
		}
	}

	if err := s.rehydrate(mode); err != nil {
		s.close()
		return nil, err
	}

	s.store.OnChange(s.journal.Observe)
	if mode.writes() {
		s.syncer = s.newSyncer(persist.OnError(func(err error) {
			logger.Warn("saving tasks failed", "err", err)
			warnf("could not save tasks: %v", err)
		}))
		s.store.OnChange(func(c store.Change) {
			if c.Persisted() {
				s.syncer.Schedule(s.store.State())
			}
		})
	}
	logger.Debug("session opened", "dir", cfg.Dir(), "backend", cfg.Storage.Backend, "tasks", s.store.Len())
	return s, nil
}

func newAdapter(cfg *config.Config) persist.Adapter {
	if cfg.Storage.Backend == config.BackendMemory {
		return persist.NewMemory()
	}
	return persist.NewDir(cfg.Dir(), cfg.Storage.Quota)
}

// rehydrate loads persisted state into the store. Unreadable data is fatal
// for writeLock sessions so a bad file is never overwritten. Readers and
// replaceLock sessions, which discard the old tasks anyway, start empty.
func (s *session) rehydrate(mode lockMode) error {
	st, err := s.adapter.Load(context.Background())
	if err != nil {
		s.logger.Error("loading tasks failed", "err", err)
		if mode == writeLock {
			return clierr.Wrap(clierr.InternalError, err,
				"cannot read saved tasks (restore a backup with 'todolist import' or start over with 'todolist clear')")
		}
		warnf("could not read saved tasks: %v", err)
		st = persist.State{}
	}
	if st.ThemeDark == nil {
		dark := s.cfg.InitialThemeDark()
		st.ThemeDark = &dark
	}
	s.store.Restore(st)
	return nil
}

func (s *session) newSyncer(opts ...persist.SyncOption) *persist.Syncer {
	opts = append([]persist.SyncOption{persist.WithDebounce(s.cfg.DebounceDuration())}, opts...)
	return persist.NewSyncer(s.adapter, opts...)
}

// saveNow writes the store immediately, dropping any scheduled write.
// Failures are reported by the syncer's error callback.
func (s *session) saveNow() {
	if s.syncer == nil {
		return
	}
	_ = s.syncer.SaveNow(context.Background(), s.store.State())
}

// close flushes pending writes and releases the lock. Write failures have
// already been reported as warnings and never fail the command.
func (s *session) close() {
	if s.syncer != nil {
		s.syncer.Stop()
		_ = s.syncer.Flush(context.Background())
	}
	if err := s.lock.Release(); err != nil {
		s.logger.Warn("releasing lock failed", "err", err)
	}
	_ = s.logCloser.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
