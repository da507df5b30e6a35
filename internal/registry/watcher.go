package registry

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch re-reads the seed file whenever it changes and registers descriptors
// that were not present before. Edits to existing ids are skipped: the
// registry is append-only so the cycle check stays valid. Blocks until ctx is
// done.
func Watch(ctx context.Context, r *Registry, path string, log zerolog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: editors replace files, which would drop a watch
	// on the file itself.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			added, err := LoadInto(r, path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("seed reload failed")
				continue
			}
			if len(added) > 0 {
				log.Info().Strs("added", added).Msg("registered backends from seed file")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("seed watcher error")
		}
	}
}
