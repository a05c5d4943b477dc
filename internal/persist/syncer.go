package persist

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last change before a
// scheduled write runs.
const DefaultDebounce = 500 * time.Millisecond

// SyncOption configures a Syncer.
type SyncOption func(*Syncer)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) SyncOption {
	return func(s *Syncer) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithSyncClock sets the time source reported to OnSaved.
func WithSyncClock(now func() time.Time) SyncOption {
	return func(s *Syncer) { s.now = now }
}

// OnSaved registers a callback run after each successful write.
func OnSaved(fn func(at time.Time)) SyncOption {
	return func(s *Syncer) { s.onSaved = fn }
}

// OnError registers a callback run after each failed write.
func OnError(fn func(error)) SyncOption {
	return func(s *Syncer) { s.onError = fn }
}

// Syncer coalesces bursts of state changes into one trailing write. Only the
// most recently scheduled State is kept. Callbacks run on the goroutine that
// performed the write, which for scheduled writes is a timer goroutine.
type Syncer struct {
	adapter Adapter
	delay   time.Duration
	now     func() time.Time
	onSaved func(time.Time)
	onError func(error)

	saveMu sync.Mutex // serialises writes so they land in scheduling order

	mu      sync.Mutex
	timer   *time.Timer
	pending *State
	gen     uint64
	stopped bool
}

// NewSyncer returns a Syncer writing through adapter.
func NewSyncer(adapter Adapter, opts ...SyncOption) *Syncer {
	s := &Syncer{
		adapter: adapter,
		delay:   DefaultDebounce,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule replaces the pending state with st and restarts the quiet period.
// st must not be modified afterwards.
func (s *Syncer) Schedule(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.pending = &st
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

// Pending reports whether a state is waiting to be written.
func (s *Syncer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush writes the pending state now, if there is one.
func (s *Syncer) Flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	st, ok := s.take(nil)
	if !ok {
		return nil
	}
	return s.save(ctx, st)
}

// SaveNow drops any pending state and writes st synchronously.
func (s *Syncer) SaveNow(ctx context.Context, st State) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.take(nil)
	return s.save(ctx, st)
}

// Stop cancels the timer. A pending state stays pending and can still be
// written with Flush; further calls to Schedule are ignored.
func (s *Syncer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Syncer) fire(gen uint64) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	st, ok := s.take(&gen)
	if !ok {
		return
	}
	_ = s.save(context.Background(), st)
}

// take removes and returns the pending state. With a non-nil gen it only
// does so when no newer Schedule has happened.
func (s *Syncer) take(gen *uint64) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != nil && *gen != s.gen {
		return State{}, false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	if s.pending == nil {
		return State{}, false
	}
	st := *s.pending
	s.pending = nil
	return st, true
}

func (s *Syncer) save(ctx context.Context, st State) error {
	if err := s.adapter.Save(ctx, st); err != nil {
		s.mu.Lock()
		if s.pending == nil {
			s.pending = &st
		}
		s.mu.Unlock()
		if s.onError != nil {
			s.onError(err)
		}
		return err
	}
	if s.onSaved != nil {
		s.onSaved(s.now())
	}
	return nil
}
