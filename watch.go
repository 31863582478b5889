package inkpress

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ContentWatcher watches the content directory and triggers a reload when
// .md files change. Editor save storms are debounced so one save produces
// one reload.
type ContentWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	reload   func()
	log      *zap.Logger

	mu      sync.Mutex
	pending *time.Timer

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewContentWatcher creates a watcher over dir. reload is called after
// each settled burst of file events.
func NewContentWatcher(dir string, log *zap.Logger, reload func()) (*ContentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	cw := &ContentWatcher{
		watcher:  w,
		dir:      dir,
		debounce: 500 * time.Millisecond,
		reload:   reload,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	return cw, nil
}

// Start begins watching. Subdirectories present at start are watched too;
// directories created later are added as their create events arrive.
func (cw *ContentWatcher) Start() error {
	if err := cw.addRecursive(cw.dir); err != nil {
		return err
	}
	go cw.run()
	return nil
}

func (cw *ContentWatcher) addRecursive(dir string) error {
	if err := cw.watcher.Add(dir); err != nil {
		return err
	}
	entries, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if info, err := os.Stat(e); err == nil && info.IsDir() {
			if err := cw.addRecursive(e); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cw *ContentWatcher) run() {
	defer close(cw.doneCh)
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handle(event)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.Warn("content watcher error", zap.Error(err))
		case <-cw.stopCh:
			return
		}
	}
}

func (cw *ContentWatcher) handle(event fsnotify.Event) {
	// New directories need their own watch before their files emit events.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := cw.watcher.Add(event.Name); err != nil {
				cw.log.Warn("watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			cw.schedule(event)
			return
		}
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	cw.schedule(event)
}

func (cw *ContentWatcher) schedule(event fsnotify.Event) {
	cw.log.Debug("content change",
		zap.String("file", event.Name),
		zap.String("op", event.Op.String()))

	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.pending != nil {
		cw.pending.Stop()
	}
	cw.pending = time.AfterFunc(cw.debounce, cw.reload)
}

// Close stops the watcher and waits for the event loop to exit.
func (cw *ContentWatcher) Close() error {
	close(cw.stopCh)
	err := cw.watcher.Close()
	<-cw.doneCh
	cw.mu.Lock()
	if cw.pending != nil {
		cw.pending.Stop()
	}
	cw.mu.Unlock()
	return err
}
