package derivegen

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/logger"
)

// DefaultDebounce collapses bursts of editor writes into one regeneration.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reruns a generation callback when Go sources in a set of
// directories change.
type Watcher struct {
	dirs     []string
	suffix   string
	debounce time.Duration
	regen    func(ctx context.Context) error
	log      *zap.SugaredLogger

	mu    sync.Mutex
	timer *time.Timer

	// running serializes regen; a timer firing during a run waits for it.
	running sync.Mutex
}

// NewWatcher watches dirs and calls regen after changes to .go files that
// are not generated outputs (files ending in suffix).
func NewWatcher(dirs []string, suffix string, regen func(ctx context.Context) error) *Watcher {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Watcher{
		dirs:     dirs,
		suffix:   suffix,
		debounce: DefaultDebounce,
		regen:    regen,
		log:      logger.ComponentLogger("watch"),
	}
}

// SetDebounce overrides the debounce period.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
// Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create fsnotify watcher")
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
		w.log.Debugw("Watching directory", logger.FieldPackage, dir)
	}
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Source changed",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.schedule(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// relevant ignores our own outputs so that writing them does not retrigger
// generation.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, w.suffix)
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.running.Lock()
		defer w.running.Unlock()
		if ctx.Err() != nil {
			return
		}
		if err := w.regen(ctx); err != nil {
			w.log.Errorw("Regeneration failed", logger.FieldError, err)
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
