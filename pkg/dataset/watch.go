package dataset

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/observability"
)

// DefaultDebounce coalesces bursts of file events (editors often write a file
// in several steps).
const DefaultDebounce = 200 * time.Millisecond

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithOnError sets the callback invoked on watcher errors.
func WithOnError(fn func(error)) WatchOption {
	return func(w *Watcher) { w.onError = fn }
}

// Watcher reports changes to the dataset files of a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	onError  func(error)

	fsw     *fsnotify.Watcher
	changes chan struct{}
}

// NewWatcher starts watching dir. The directory rather than the files is
// watched so that atomic replace-by-rename is seen.
func NewWatcher(dir string, opts ...WatchOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		onError:  func(error) {},
		fsw:      fsw,
		changes:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Changes receives one value per debounced burst of changes. Bursts that
// arrive while a previous notification is unread are merged into it.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Run processes file events until ctx is done, then closes the underlying
// watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var pending string

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !isDatasetFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			pending = ev.Name
			timer.Reset(w.debounce)

		case <-timer.C:
			observability.Dataset().OnChange(ctx, pending)
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

func isDatasetFile(path string) bool {
	base := filepath.Base(path)
	return base == graph.CoreFile || base == graph.SemanticFile
}
