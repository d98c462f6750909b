package overlay

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/rjeczalik/notify"
)

const (
	watchBufferSize = 16
	reloadDebounce  = 100 * time.Millisecond
)

// Watch reloads the catalog when its file changes on disk. It returns once
// the watch is established and stops when ctx is cancelled.
func (s *Service) Watch(ctx context.Context) error {
	target, err := s.CatalogPath()
	if err != nil {
		return err
	}

	events := make(chan notify.EventInfo, watchBufferSize)
	// Watch the parent dir: editors often replace the file via rename.
	if err := notify.Watch(filepath.Dir(target), events, notify.Write, notify.Create, notify.Rename); err != nil {
		return err
	}

	go func() {
		defer notify.Stop(events)

		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				if filepath.Clean(ev.Path()) != target {
					continue
				}
				// Debounce bursts of events from a single save.
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					if err := s.Reload(); err != nil {
						slog.Error("overlay catalog reload", "path", target, "error", err)
					}
				})
			}
		}
	}()

	slog.Debug("overlay catalog watch", "path", target)
	return nil
}
