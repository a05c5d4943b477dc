// Package filelock provides advisory file locks that coordinate todolist
// processes sharing one data directory.
package filelock

import (
	"fmt"
	"os"
)

const lockFileMode = 0o600

// Mode selects shared or exclusive locking.
type Mode int

// Lock modes.
const (
	Exclusive Mode = iota
	Shared
)

// Lock is a held advisory lock.
type Lock struct {
	f *os.File
}

// Acquire blocks until it holds a lock of the given mode on path, creating
// the lock file if needed. Any number of Shared holders may coexist; an
// Exclusive holder excludes everyone else.
func Acquire(path string, mode Mode) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // path is inside the data dir
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := lock(f, mode); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return &Lock{f: f}, nil
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	unlockErr := unlock(f)
	closeErr := f.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

// With runs fn while holding a lock of the given mode on path.
func With(path string, mode Mode, fn func() error) error {
	l, err := Acquire(path, mode)
	if err != nil {
		return err
	}
	defer func() { _ = l.Release() }()
	return fn()
}
