// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package settings

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"grimm.is/sinkhole/internal/logging"
)

// pollInterval backstops the watcher: editors that replace the file rather
// than writing it in place can slip past inotify on some filesystems.
const pollInterval = 30 * time.Second

// Watch reloads the settings file on write events until ctx is done. The
// file's directory is watched, not the file itself, so atomic
// rename-into-place saves are seen too. Watch degrades to pure polling
// when inotify is unavailable.
func (s *Store) Watch(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("[SETTINGS] watcher unavailable, polling only: %v", err)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.maybeReload()
			}
		}
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		logging.Warn("[SETTINGS] cannot watch %s, polling only: %v", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.maybeReload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("[SETTINGS] watch error: %v", err)
		case <-ticker.C:
			s.maybeReload()
		}
	}
}
