package content

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the profile at path whenever it changes and hands the
// result to fn: a parsed profile or the parse error. The parent directory
// is watched so editors that replace the file by rename are picked up.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(*Profile, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p, err := Load(abs)
			fn(p, err)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(nil, err)
		}
	}
}
