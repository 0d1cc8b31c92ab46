package session

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"packsight/internal/logging"
)

// watchQuiet is the debounce window for file-change bursts.
const watchQuiet = 250 * time.Millisecond

// Watch reloads a slot whenever its backing file changes on disk and
// reports each reload through onReload (including failed ones, so the
// caller can surface the status). It blocks until ctx is done.
//
// The watch is registered on the parent directory: editors commonly
// replace the file by rename, which drops a watch on the file itself.
func (s *Session) Watch(ctx context.Context, slot Slot, onReload func(LoadResult)) error {
	path, ok := s.Path(slot)
	if !ok {
		return fmt.Errorf("watch: no pack loaded in slot %s", slot)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	debouncer := NewDebouncer(watchQuiet)
	defer debouncer.Cancel()

	reload := func() {
		gen := s.Begin(slot)
		res := Read(slot, gen, abs)
		installed := s.Complete(res)
		if res.Err != nil {
			logging.Watch("[%s] reload of %s failed: %v", s.ID, abs, res.Err)
		} else if !installed {
			logging.Watch("[%s] reload of %s superseded (gen %d)", s.ID, abs, gen)
		} else {
			logging.Watch("[%s] reloaded %s into slot %s", s.ID, abs, slot)
		}
		onReload(res)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, open := <-watcher.Events:
			if !open {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debouncer.Debounce(reload)
		case err, open := <-watcher.Errors:
			if !open {
				return nil
			}
			logging.Watch("watcher error: %v", err)
		}
	}
}
