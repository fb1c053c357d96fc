package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/logger"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/snapshot"
)

const debounceInterval = 100 * time.Millisecond

// File watches a JSON export of the database and pushes it whenever it changes.
// A missing file is an absent snapshot, not an error.
type File struct {
	path string
	node string
}

// NewFile creates a file source. node selects the daily scores node inside an
// export of the whole database; a bare mapping works as well.
func NewFile(path, node string) *File {
	return &File{path: path, node: node}
}

// Name implements Source.
func (f *File) Name() string { return "file" }

// Location implements Source.
func (f *File) Location() string { return f.path }

// Subscribe implements Source.
func (f *File) Subscribe(ctx context.Context, fn func(Update)) (Unsubscribe, error) {
	// Watch the directory so the file can be created, replaced or removed.
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	d := newDispatcher(fn, cancel)

	go func() {
		defer d.finish()
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Error("failed to close watcher", "error", err)
			}
		}()
		f.watchLoop(ctx, watcher, d)
	}()

	return d.unsubscribe, nil
}

// watchLoop reads the file once, then again after every debounced change.
func (f *File) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, d *dispatcher) {
	d.deliver(f.read())

	reload := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(f.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid changes
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			d.deliver(f.read())

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			d.fail(fmt.Errorf("file watcher: %w", err))

		case <-ctx.Done():
			return
		}
	}
}

func (f *File) read() Update {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("Snapshot file missing, treating as empty", "path", f.path)
		return Update{At: time.Now()}
	}
	if err != nil {
		return Update{Err: fmt.Errorf("failed to read snapshot: %w", err)}
	}

	snap, err := snapshot.Decode(data, f.node)
	if err != nil {
		return Update{Err: fmt.Errorf("%s: %w", f.path, err)}
	}
	return Update{At: time.Now(), Snapshot: snap}
}
