package skills

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// watchDebounce is the delay before reloading after a change burst.
const watchDebounce = 500 * time.Millisecond

// Watcher monitors the loader's directories for SKILL.md changes and
// triggers reloads, debounced so a burst of writes costs one rescan.
type Watcher struct {
	loader *Loader
	fsw    *fsnotify.Watcher
	log    zerolog.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
}

// NewWatcher creates a watcher over the loader's directories.
func NewWatcher(loader *Loader, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		loader: loader,
		fsw:    fsw,
		log:    log,
	}, nil
}

// Start begins watching. Directories that do not exist yet are skipped.
func (w *Watcher) Start(ctx context.Context) error {
	watched := 0
	for _, dir := range w.loader.Dirs() {
		if err := w.fsw.Add(dir); err != nil {
			if !os.IsNotExist(err) {
				w.log.Warn().Str("path", dir).Err(err).Msg("cannot watch skills dir")
			}
			continue
		}
		watched++

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if err := w.fsw.Add(filepath.Join(dir, e.Name())); err == nil {
				watched++
			}
		}
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.loop(ctx)

	w.log.Info().Int("watched", watched).Msg("skills watcher started")
	return nil
}

// Stop shuts down the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.fsw.Close()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("skills watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// A new directory under a skill root may become a skill; watch it.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.fsw.Add(event.Name)
		}
	}

	base := filepath.Base(event.Name)
	relevant := strings.EqualFold(base, SkillFileName) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
	if !relevant {
		return
	}

	w.scheduleReload()
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if !w.pending {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	if err := w.loader.Reload(); err != nil {
		w.log.Warn().Err(err).Msg("skills reload failed")
		return
	}
	w.log.Info().Int("skills", len(w.loader.Skills())).Msg("skills reloaded")
}
