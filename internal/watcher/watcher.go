// Package watcher re-triggers benchmark runs when the configuration file
// changes on disk.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/conneroisu/togglebench/internal/errors"
	"github.com/conneroisu/togglebench/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is called once per debounced burst of changes.
type ChangeHandler func(ctx context.Context) error

// FileWatcher watches a single file with debouncing.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are still noticed.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	delay   time.Duration
	logger  logging.Logger
}

// NewFileWatcher creates a watcher for path.
func NewFileWatcher(path string, debounceDelay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeWatchFailed, "resolving watch path", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeWatchFailed, "watch target missing", err).
			WithContext("path", absPath)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeWatchFailed, "creating watcher", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, errors.NewIOError(errors.ErrCodeWatchFailed, "watching directory", err).
			WithContext("path", filepath.Dir(absPath))
	}

	return &FileWatcher{
		watcher: fsw,
		path:    absPath,
		delay:   debounceDelay,
		logger:  logger.WithComponent("watcher"),
	}, nil
}

// Path returns the absolute path being watched.
func (fw *FileWatcher) Path() string {
	return fw.path
}

// Watch blocks until ctx is done or handler fails, calling handler after each
// burst of writes to the watched file settles for the debounce delay.
func (fw *FileWatcher) Watch(ctx context.Context, handler ChangeHandler) error {
	var timer *time.Timer
	var fire <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !fw.relevant(event) {
				continue
			}
			fw.logger.Debug(ctx, "Configuration changed", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(fw.delay)
			} else {
				timer.Reset(fw.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := handler(ctx); err != nil {
				return err
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warn(ctx, err, "File watcher error")
		}
	}
}

func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != fw.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("closing watcher: %w", err)
	}
	return nil
}
