package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/todolist/internal/filelock"
)

// ErrQuotaExceeded is returned when a write would push the key files over
// the configured quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

const (
	dataLockFile = ".data.lock"
	dirMode      = 0o750
	fileMode     = 0o600
)

var keyFiles = map[string]string{
	KeyTasks:  "tasks.json",
	KeyTheme:  "theme.json",
	KeyFilter: "filter",
}

// KeyFileNames returns the base names of the files a DirKV writes.
func KeyFileNames() []string {
	return []string{keyFiles[KeyTasks], keyFiles[KeyTheme], keyFiles[KeyFilter]}
}

// DirKV keeps each key in its own file inside a directory. Writes go to a
// temp file first and are renamed into place under an exclusive lock.
type DirKV struct {
	dir   string
	quota int64
}

// NewDirKV returns a DirKV rooted at dir. A quota of zero or less disables
// the size check.
func NewDirKV(dir string, quota int64) *DirKV {
	return &DirKV{dir: dir, quota: quota}
}

// Path returns the file that holds key.
func (d *DirKV) Path(key string) string {
	name, ok := keyFiles[key]
	if !ok {
		name = key
	}
	return filepath.Join(d.dir, name)
}

func (d *DirKV) lockPath() string {
	return filepath.Join(d.dir, dataLockFile)
}

// Get implements KV.
func (d *DirKV) Get(key string) ([]byte, error) {
	if _, err := os.Stat(d.dir); errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	var data []byte
	err := filelock.With(d.lockPath(), filelock.Shared, func() error {
		var readErr error
		data, readErr = os.ReadFile(d.Path(key))
		return readErr
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// SetMany implements KV. Every temp file is written and the quota checked
// before any rename, so those failures change nothing. The renames run one
// key at a time; if one fails, keys already renamed keep their new content.
func (d *DirKV) SetMany(entries map[string][]byte) error {
	if err := os.MkdirAll(d.dir, dirMode); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return filelock.With(d.lockPath(), filelock.Exclusive, func() error {
		if err := d.checkQuota(entries); err != nil {
			return err
		}

		temps := make(map[string]string, len(entries))
		defer func() {
			for _, tmp := range temps {
				_ = os.Remove(tmp)
			}
		}()
		for key, data := range entries {
			tmp, err := d.writeTemp(data)
			if err != nil {
				return fmt.Errorf("writing %s: %w", key, err)
			}
			temps[key] = tmp
		}
		for key, tmp := range temps {
			if err := os.Rename(tmp, d.Path(key)); err != nil {
				return fmt.Errorf("replacing %s: %w", key, err)
			}
			delete(temps, key)
		}
		return nil
	})
}

func (d *DirKV) writeTemp(data []byte) (string, error) {
	f, err := os.CreateTemp(d.dir, ".tmp-*")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	if err := os.Chmod(name, fileMode); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// checkQuota sums the new entries with the key files they leave untouched.
func (d *DirKV) checkQuota(entries map[string][]byte) error {
	if d.quota <= 0 {
		return nil
	}
	var total int64
	for key := range keyFiles {
		if data, ok := entries[key]; ok {
			total += int64(len(data))
			continue
		}
		if info, err := os.Stat(d.Path(key)); err == nil {
			total += info.Size()
		}
	}
	for key, data := range entries {
		if _, known := keyFiles[key]; !known {
			total += int64(len(data))
		}
	}
	if total > d.quota {
		return fmt.Errorf("%w: %d bytes over a limit of %d", ErrQuotaExceeded, total, d.quota)
	}
	return nil
}
