package fs

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/revio/revio/pkg/core"
)

// Watch observes the data directory for out-of-band changes (files edited,
// added or removed by something other than this process) and publishes the
// matching events through pub, so connected clients converge on external
// edits too. Writes made through the store itself are suppressed: they are
// already indexed, and already announced by the mutation path.
//
// The watcher stops when ctx is cancelled.
func (s *Store) Watch(ctx context.Context, pub core.Publisher) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer watcher.Close()
		s.logger.Debug("watching data directory", "path", s.Path)
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				s.handleFsEvent(event, pub)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Error("watch error", "error", err)
			}
		}
	})
	return nil
}

func (s *Store) handleFsEvent(event fsnotify.Event, pub core.Publisher) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, TempFilePrefix) {
		return
	}

	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		e, err := s.applyExternal(name)
		if err != nil {
			s.logger.Warn("failed to read changed record", "file", name, "error", err)
			return
		}
		if e != nil {
			s.logger.Debug("external change detected", "event", e.String())
			pub.Publish(*e)
		}
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if e := s.dropExternal(name); e != nil {
			s.logger.Debug("external removal detected", "event", e.String())
			pub.Publish(*e)
		}
	}
}
