package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = 100 * time.Millisecond

// Change names a prefab or script file that was written. Name is relative to
// the prefab directory, e.g. "wisp.yaml" or "scripts/wisp.tengo".
type Change struct {
	Name   string
	Script bool
}

// Watcher reports prefab and script edits. It runs its own goroutine; the
// game loop collects changes with Drain.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     *zap.Logger
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches dir and its scripts subdirectory when present.
func NewWatcher(dir string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	scripts := filepath.Join(dir, "scripts")
	if err := w.Add(scripts); err != nil {
		log.Debug("prefab scripts dir not watched", zap.String("dir", scripts), zap.Error(err))
	}

	watcher := &Watcher{
		watcher: w,
		log:     log,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run(dir)
	return watcher, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Drain returns the changes queued so far without blocking. Repeated
// changes to one file are reported once.
func (w *Watcher) Drain() []Change {
	var out []Change
	seen := make(map[Change]bool)
	for {
		select {
		case c, ok := <-w.Events:
			if !ok {
				return out
			}
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		default:
			return out
		}
	}
}

func (w *Watcher) run(dir string) {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			script := isScriptFile(event.Name)
			if !isSpecFile(event.Name) && !script {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[event.Name] = now

			c := Change{Name: relativeName(dir, event.Name), Script: script}
			select {
			case w.Events <- c:
			default:
				w.log.Warn("prefab change dropped, queue full", zap.String("name", c.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func relativeName(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return filepath.ToSlash(filepath.Base(path))
	}
	return filepath.ToSlash(rel)
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
