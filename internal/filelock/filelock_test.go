package filelock

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedLocksCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	a, err := Acquire(path, Shared)
	require.NoError(t, err)
	b, err := Acquire(path, Shared)
	require.NoError(t, err)

	assert.NoError(t, a.Release())
	assert.NoError(t, b.Release())
}

func TestExclusiveBlocksUntilReleased(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	held, err := Acquire(path, Exclusive)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		l, err := Acquire(path, Exclusive)
		if err == nil {
			_ = l.Release()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second exclusive lock acquired while first was held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, held.Release())

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second exclusive lock never acquired")
	}
}

func TestReleaseTwice(t *testing.T) {
	l, err := Acquire(filepath.Join(t.TempDir(), ".lock"), Exclusive)
	require.NoError(t, err)

	require.NoError(t, l.Release())
	assert.NoError(t, l.Release())
}

func TestWithRunsFn(t *testing.T) {
	called := false
	err := With(filepath.Join(t.TempDir(), ".lock"), Exclusive, func() error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}
