package corpus

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.CorpusWatcher = (*Watcher)(nil)

// DefaultDebounce groups bursts of file events into one change.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports changes to the corpus files of a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
}

// NewWatcher creates a watcher for the corpus directory.
func NewWatcher(dir string) *Watcher {
	return &Watcher{dir: dir, debounce: DefaultDebounce}
}

// Watch calls onChange once per changed language after events settle,
// until ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, onChange func(language string)) error {
	if w.dir == "" {
		return fmt.Errorf("%w: classifier.corpus_dir", domain.ErrConfigurationMissing)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating corpus watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warn("closing corpus watcher: %v", err)
		}
	}()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("watching corpus directory %s", w.dir)

	pending := make(map[string]struct{})
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			lang, ok := LanguageOf(ev.Name)
			if !ok {
				continue
			}
			logger.Debug("corpus event %s on %s", ev.Op, ev.Name)
			pending[lang] = struct{}{}
			settle = time.After(w.debounce)

		case <-settle:
			settle = nil
			langs := make([]string, 0, len(pending))
			for lang := range pending {
				langs = append(langs, lang)
			}
			sort.Strings(langs)
			clear(pending)
			for _, lang := range langs {
				onChange(lang)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("corpus watcher: %w", err)
		}
	}
}
