// Package jsonfile stores a single JSON document on disk, guarded by an
// advisory flock on a sidecar lock file so that concurrent processes sharing
// the document (the server, the CLI, the vitals sync agent) never interleave
// a read-modify-write cycle.
package jsonfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

type File struct {
	path string
	mu   sync.Mutex
}

func New(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

// Read decodes the document into a T. A missing, empty or "null" document
// yields the zero value and found == false.
func Read[T any](f *File) (value T, found bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	unlock, err := f.lock(unix.LOCK_SH)
	if err != nil {
		return value, false, err
	}
	defer unlock()

	return decode[T](f.path)
}

// Update runs fn against the current document under an exclusive lock and
// writes the result back atomically. Returning an error from fn aborts the
// write.
func Update[T any](f *File, fn func(current *T) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	unlock, err := f.lock(unix.LOCK_EX)
	if err != nil {
		return err
	}
	defer unlock()

	current, _, err := decode[T](f.path)
	if err != nil {
		return err
	}
	if err := fn(&current); err != nil {
		return err
	}
	return writeAtomic(f.path, current)
}

func decode[T any](path string) (value T, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("could not read %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return value, false, nil
	}
	if err := sonic.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("could not decode %s: %w", path, err)
	}
	return value, true, nil
}

func writeAtomic(path string, value any) error {
	data, err := sonic.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warnf("could not remove temp file %s: %v", tmpName, rmErr)
		}
	}

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("could not write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("could not sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("could not replace %s: %w", path, err)
	}
	return nil
}

func (f *File) lock(how int) (func(), error) {
	lockFile, err := os.OpenFile(f.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open lock file: %w", err)
	}
	if err := unix.Flock(int(lockFile.Fd()), how); err != nil {
		lockFile.Close()
		return nil, fmt.Errorf("could not lock %s: %w", f.path, err)
	}
	return func() {
		if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_UN); err != nil {
			log.Warnf("could not unlock %s: %v", f.path, err)
		}
		lockFile.Close()
	}, nil
}
