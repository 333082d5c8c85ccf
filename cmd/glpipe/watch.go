package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
)

// watchStages reports the stage files that changed on disk. Directories
// are watched rather than files so editors that replace files on save
// keep being followed. The returned channel closes when ctx is done.
func watchStages(ctx context.Context, paths []string, log *slog.Logger) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, p := range paths {
		dir := filepath.Dir(p)
		if slices.Contains(dirs, dir) {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, err
		}
		dirs = append(dirs, dir)
	}

	changed := make(chan string)
	go func() {
		defer close(changed)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				name := filepath.Clean(event.Name)
				if !slices.Contains(paths, name) {
					continue
				}
				select {
				case changed <- name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watch error", "err", err)
			}
		}
	}()
	return changed, nil
}
