package dataset

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"worldmap/internal/logging"
)

const DefaultDebounce = 100 * time.Millisecond

// Update is the result of reloading a watched file.
type Update struct {
	Path string
	Data Dataset
	Err  error
}

// Watcher reloads a dataset file whenever it changes on disk. Bursts of
// events (editors often write, chmod and rename) collapse into one reload
// once the file has been quiet for the debounce interval.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	log      logging.Logger

	updates chan Update
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

type WatchOptions struct {
	Debounce time.Duration
	Logger   logging.Logger
}

// NewWatcher watches path's directory, so replacing the file by rename is
// seen as well as in-place writes.
func NewWatcher(path string, opts WatchOptions) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w := &Watcher{
		fs:       fw,
		path:     abs,
		debounce: opts.Debounce,
		log:      logging.OrNop(opts.Logger).Named("dataset").With(logging.String("path", abs)),
		updates:  make(chan Update, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Updates delivers reload results. It is closed after Close.
func (w *Watcher) Updates() <-chan Update { return w.updates }

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.updates)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			d, err := Load(w.path)
			if err != nil {
				w.log.Warn("dataset reload failed", logging.Err(err))
			} else {
				w.log.Info("dataset reloaded", logging.Int("entities", d.Len()))
			}
			select {
			case w.updates <- Update{Path: w.path, Data: d, Err: err}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", logging.Err(err))
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
