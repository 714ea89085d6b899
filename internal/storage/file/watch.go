package file

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads the store whenever a data file in the directory changes.
// Bursts of events are collapsed into one reload. onChange receives the ids
// present before or after the reload. The watcher stops when ctx is done.
func (s *Store) Watch(ctx context.Context, onChange func(ids []string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(s.dir); err != nil {
		_ = w.Close()
		return err
	}
	log.Info().Str("dir", s.dir).Msg("watching property data")

	go func() {
		defer w.Close()

		// nil until an event arrives; each event pushes the reload further out
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ok, _ := isDataFile(filepath.Base(ev.Name)); !ok {
					continue
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				fire = time.After(s.debounce)

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("data watcher error")

			case <-fire:
				fire = nil
				ids, err := s.Reload()
				if err != nil {
					log.Error().Err(err).Str("dir", s.dir).Msg("property data reload failed")
					continue
				}
				if onChange != nil {
					onChange(ids)
				}
			}
		}
	}()
	return nil
}
