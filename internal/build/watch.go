package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch re-transpiles source files as they are written or created until ctx
// is cancelled. Each result is passed to onResult. New directories are added
// to the watch as they appear.
func (b *Builder) Watch(ctx context.Context, onResult func(FileResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := b.addTree(watcher, b.workspace.InputDir); err != nil {
		return err
	}
	slog.Info("watching", "dir", b.workspace.InputDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			b.handleEvent(ctx, watcher, ev, onResult)
		}
	}
}

func (b *Builder) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, ev fsnotify.Event, onResult func(FileResult)) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	rel, err := b.workspace.Rel(ev.Name)
	if err != nil {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if !b.workspace.skipDir(ev.Name, rel) {
				if err := b.addTree(watcher, ev.Name); err != nil {
					slog.Warn("watch error", "dir", rel, "error", err)
				}
			}
			return
		}
	}
	if !b.workspace.IsSource(rel) {
		return
	}
	slog.Debug("change detected", "file", rel, "op", ev.Op.String())
	onResult(b.buildFile(ctx, rel))
}

// addTree adds root and every non-skipped directory below it to the watcher.
func (b *Builder) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != b.workspace.InputDir {
			rel, err := b.workspace.Rel(p)
			if err != nil {
				return err
			}
			if b.workspace.skipDir(p, rel) {
				return filepath.SkipDir
			}
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}
