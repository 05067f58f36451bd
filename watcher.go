package bramble

import (
	"io/fs"
	"path/filepath"

	"github.com/eapache/queue"
	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/phanxgames/bramble/container"
)

// Watcher reports asset files that changed on disk.
type Watcher interface {
	// Poll returns at most budget changed paths without blocking. Paths past
	// the budget stay queued for later frames.
	Poll(budget int) []string
	Close() error
}

// FSWatcher watches a directory tree with fsnotify. Notifications are
// drained once per frame into a deduplicated backlog.
type FSWatcher struct {
	w       *fsnotify.Watcher
	log     zerolog.Logger
	accept  func(path string) bool
	backlog *queue.Queue
	queued  *container.Table[struct{}]
	out     []string
}

// NewFSWatcher watches root and every directory below it. Only paths for
// which accept returns true are reported; a nil accept reports everything.
func NewFSWatcher(root string, accept func(path string) bool, log zerolog.Logger) (*FSWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, eris.Wrap(err, "bramble: failed to create watcher")
	}
	fw := &FSWatcher{
		w:       w,
		log:     component(log, "watcher"),
		accept:  accept,
		backlog: queue.New(),
		queued:  container.NewTable[struct{}](0),
	}
	if err := fw.addTree(root); err != nil {
		_ = w.Close()
		return nil, err
	}
	return fw, nil
}

func (fw *FSWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return eris.Wrapf(err, "bramble: failed to watch %s", path)
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.w.Add(path); err != nil {
			return eris.Wrapf(err, "bramble: failed to watch %s", path)
		}
		fw.log.Debug().Str("dir", path).Msg("watching")
		return nil
	})
}

// Poll implements Watcher.
func (fw *FSWatcher) Poll(budget int) []string {
	fw.drain()
	return fw.take(budget)
}

// Pending returns the number of queued paths.
func (fw *FSWatcher) Pending() int { return fw.backlog.Length() }

func (fw *FSWatcher) drain() {
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			fw.handle(ev)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			fw.log.Error().Err(err).Msg("watch error")
		default:
			return
		}
	}
}

func (fw *FSWatcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		// new directories need their own watch
		if err := fw.addTree(ev.Name); err != nil {
			fw.log.Debug().Err(err).Str("path", ev.Name).Msg("watch new path")
		}
	}
	if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
		fw.enqueue(ev.Name)
	}
}

func (fw *FSWatcher) enqueue(path string) {
	if fw.accept != nil && !fw.accept(path) {
		return
	}
	if fw.queued.Contains(path) {
		return
	}
	_ = fw.queued.Add(path, struct{}{})
	fw.backlog.Add(path)
}

func (fw *FSWatcher) take(budget int) []string {
	fw.out = fw.out[:0]
	for len(fw.out) < budget && fw.backlog.Length() > 0 {
		path := fw.backlog.Remove().(string)
		fw.queued.Remove(path)
		fw.out = append(fw.out, path)
	}
	if fw.backlog.Length() > 0 {
		fw.log.Debug().Int("backlog", fw.backlog.Length()).Msg("reload budget spent")
	}
	return fw.out
}

// Close stops watching.
func (fw *FSWatcher) Close() error {
	return eris.Wrap(fw.w.Close(), "bramble: failed to close watcher")
}
