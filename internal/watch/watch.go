// Package watch re-processes files as they change on disk. Events are
// debounced so editors that fire several writes per save trigger one run.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"propsort/errors"
	"propsort/internal/fileutil"
	"propsort/internal/logging"
	"propsort/internal/runner"
)

// Debounce is how long the watcher waits after the last event before
// processing the pending batch.
const Debounce = 200 * time.Millisecond

// Watcher re-runs the processor over files that change under its paths.
type Watcher struct {
	run      *runner.Runner
	roots    []string        // directory trees being watched
	explicit map[string]bool // files named directly on the command line
}

// New returns a watcher that processes changes with cfg.
func New(cfg runner.Config) *Watcher {
	return &Watcher{run: runner.New(cfg), explicit: map[string]bool{}}
}

// Watch blocks until ctx is cancelled, re-processing every supported file
// created or written under the given paths. Directories created while
// watching are added to the watch list.
func (w *Watcher) Watch(ctx context.Context, paths []string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "starting watcher")
	}
	defer fsw.Close()

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return errors.Wrapf(err, "stat %s", p)
		}
		if info.IsDir() {
			if err := addDirs(fsw, p); err != nil {
				return err
			}
			w.roots = append(w.roots, p)
			continue
		}
		// Watch the parent so atomic saves (write temp, rename over) keep
		// delivering events for the file.
		if err := fsw.Add(filepath.Dir(p)); err != nil {
			return errors.Wrapf(err, "watching %s", p)
		}
		w.explicit[p] = true
	}
	logging.Infow("watching", "paths", paths, "debounce", Debounce)

	pending := map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			fire = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logging.Infow("watcher stopped")
			return nil

		case <-fire:
			w.flush(ctx, pending)
			pending = map[string]bool{}

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && w.underRoot(ev.Name) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirs(fsw, ev.Name); addErr != nil {
						logging.Warnw("watching new dir failed", "path", ev.Name, "error", addErr)
					}
					found, findErr := fileutil.FindFiles(ev.Name, true)
					if findErr == nil && len(found) > 0 {
						for _, f := range found {
							pending[f] = true
						}
						schedule()
					}
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !fileutil.Supported(ev.Name) || !(w.explicit[ev.Name] || w.underRoot(ev.Name)) {
				continue
			}
			pending[ev.Name] = true
			schedule()

		case werr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.Errorw("watch error", "error", werr)
		}
	}
}

// flush processes the pending paths in one batch. Paths deleted since their
// event are dropped.
func (w *Watcher) flush(ctx context.Context, pending map[string]bool) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	logging.Debugw("processing batch", "files", len(paths))

	sum, err := w.run.Run(ctx, paths)
	if err != nil {
		logging.Errorw("watch run failed", "error", err)
		return
	}
	w.run.PrintResults(sum)
	w.run.PrintSummary(sum)
}

func (w *Watcher) underRoot(p string) bool {
	for _, r := range w.roots {
		if p == r || strings.HasPrefix(p, r+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// addDirs adds root and its subdirectories to the watcher, honoring the
// same skip rules as discovery.
func addDirs(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && fileutil.SkipDirName(filepath.Base(path)) {
			return fs.SkipDir
		}
		return errors.Wrapf(fsw.Add(path), "watching %s", path)
	})
}
