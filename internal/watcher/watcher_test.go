package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	fired := make(chan struct{}, 8)

	w, err := New(dir, []string{"tasks.json"}, 50*time.Millisecond, func() {
		calls.Add(1)
		fired <- struct{}{}
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	for range 3 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("[]"), 0o600))
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w, err := New(dir, []string{"tasks.json"}, 20*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "todolist.log"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, int32(0), calls.Load())
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), nil, 0, func() {})
	assert.Error(t, err)
}
