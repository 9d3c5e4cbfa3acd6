package directory

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads path into s whenever the file is written or replaced, until ctx is done.
// A reload that fails keeps the previous contents.
func Watch(ctx context.Context, s *Static, path string, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so editors that swap files via rename are still seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				if err := s.LoadFile(path); err != nil {
					logger.Warn("directory reload failed", zap.String("file", path), zap.Error(err))
					continue
				}
				logger.Info("directory reloaded", zap.String("file", path), zap.Int("employees", len(s.All())))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("directory watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
