// Package docfile stores one collection as a JSON array in a single file.
//
// Every read and write goes through the whole collection: LoadAll decodes the
// full array, SaveAll replaces the full file. Files bound to the same path
// share one lock, so Update sequences against a collection never interleave
// inside a process. Separate processes writing the same file are not
// coordinated.
package docfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
)

var ErrCorruptStore = errors.New("corrupt store")

// CorruptStoreError reports a backing file that is not a JSON array.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt store %s: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() []error {
	return []error{ErrCorruptStore, e.Err}
}

var (
	locksMu sync.Mutex
	locks   = map[string]*sync.Mutex{}
)

func lockFor(path string) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()

	mu, ok := locks[path]
	if !ok {
		mu = &sync.Mutex{}
		locks[path] = mu
	}
	return mu
}

type File[T any] struct {
	path string
	mu   *sync.Mutex
}

func New[T any](path string) *File[T] {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return &File[T]{path: abs, mu: lockFor(abs)}
}

func (f *File[T]) Path() string {
	return f.path
}

// Ensure creates the file with an empty array if it does not exist yet.
func (f *File[T]) Ensure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ensure()
}

func (f *File[T]) LoadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *File[T]) SaveAll(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(records)
}

// View loads the collection and runs fn while still holding the file lock.
func (f *File[T]) View(ctx context.Context, fn func([]T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}
	return fn(records)
}

// Update runs load, fn and save as one unit. When fn returns an error the
// file is left untouched and the error is returned as is.
func (f *File[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return f.save(next)
}

func (f *File[T]) ensure() error {
	_, err := os.Stat(f.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", f.path, err)
	}
	return f.replace([]byte("[]"))
}

func (f *File[T]) load() ([]T, error) {
	if err := f.ensure(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []T{}, nil
	}
	if data[0] != '[' {
		return nil, &CorruptStoreError{Path: f.path, Err: errors.New("top-level value is not an array")}
	}

	records := []T{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &CorruptStoreError{Path: f.path, Err: err}
	}
	return records, nil
}

func (f *File[T]) save(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", f.path, err)
	}
	return f.replace(data)
}

// replace swaps the file for data in one rename, so readers see either the
// old or the new content.
func (f *File[T]) replace(data []byte) error {
	if err := renameio.WriteFile(f.path, data, 0o644, renameio.WithStaticPermissions(0o644)); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
