package store

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads the store when its backing file changes on disk from an
// external edit. The store's own writes are suppressed by content hash
// inside ReloadIfChanged, so the watcher can forward every event for the
// file without tracking write provenance.
//
// The parent directory is watched rather than the file itself: the store
// replaces the file by rename, which drops a direct file watch on most
// platforms.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	done    chan struct{}
	log     zerolog.Logger
}

// NewWatcher starts watching the store's backing file. Close releases the
// underlying OS watch.
func NewWatcher(s *Store, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(s.Path())); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		store:   s,
		watcher: fw,
		done:    make(chan struct{}),
		log:     log.With().Str("component", "watcher").Logger(),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	target := filepath.Clean(w.store.Path())

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := w.store.ReloadIfChanged(); err != nil {
				w.log.Error().Err(err).Msg("reload after file change failed")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("file watch error")
		}
	}
}
