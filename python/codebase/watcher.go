package codebase

import (
	"os"
	"sync"
	"time"
)

// FileWatcher polls the root directory and keeps the codebase in step
// with files created, modified or deleted on disk.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	stopOnce     sync.Once
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(c *Codebase, pollInterval time.Duration) *FileWatcher {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: pollInterval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan reports the number of files it reparsed or removed.
func (w *FileWatcher) scan() int {
	paths, err := w.codebase.Config().PythonFiles(w.codebase.RootDir())
	if err != nil {
		log.Warningf("watch: %s", err)
		return 0
	}

	changed := 0
	current := make(map[string]bool, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		current[path] = true
		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			continue
		}
		w.modTimes[path] = info.ModTime()
		if err := w.codebase.ScanFile(path); err != nil {
			log.Warningf("watch: %s", err)
		}
		changed++
	}

	for path := range w.modTimes {
		if current[path] {
			continue
		}
		delete(w.modTimes, path)
		if f := w.codebase.GetFile(path); f != nil && f.Open {
			continue
		}
		w.codebase.RemoveFile(path)
		changed++
	}
	if changed > 0 {
		log.Debugf("watch: %d files changed", changed)
	}
	return changed
}
