package ingest

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/akoreshkov/logstats/internal/repository"
	"github.com/fsnotify/fsnotify"
)

const (
	settleInterval = 2 * time.Second
	rescanInterval = time.Minute
)

// watchState tracks files that changed recently, keyed by their last
// observed size. A file is only handed on once its size stops moving, so
// a copy still in progress is never hashed and marked half-done.
type watchState struct {
	sizes map[string]int64
}

func newWatchState() *watchState {
	return &watchState{sizes: make(map[string]int64)}
}

func (s *watchState) mark(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	if _, pending := s.sizes[path]; !pending {
		s.sizes[path] = info.Size()
	}
}

// settled returns the pending paths whose size is unchanged since the last
// check and drops them from tracking. Still-growing files stay pending
// with their new size; vanished files are forgotten.
func (s *watchState) settled() []string {
	var ready []string
	for path, last := range s.sizes {
		info, err := os.Stat(path)
		if err != nil {
			delete(s.sizes, path)
			continue
		}
		if info.Size() == last {
			ready = append(ready, path)
			delete(s.sizes, path)
		} else {
			s.sizes[path] = info.Size()
		}
	}
	return ready
}

func (s *watchState) markAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("watch: read dir %s: %v", dir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		s.mark(filepath.Join(dir, entry.Name()))
	}
}

// WatchDir ingests every regular file that appears in dir. Change events
// and the periodic rescan both only mark a file as pending; ingestion
// happens once the file's size has settled. Content-hash dedup makes
// repeated triggers for the same file harmless, so this only decides when
// to try, not what counts as new.
func WatchDir(dir string, repo repository.LogRepository, classify ClassifyFunc, batchSize int, stopCh <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	state := newWatchState()
	state.markAll(dir)

	settle := time.NewTicker(settleInterval)
	defer settle.Stop()
	rescan := time.NewTicker(rescanInterval)
	defer rescan.Stop()

	for {
		select {
		case <-stopCh:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				state.mark(event.Name)
			}
		case err := <-watcher.Errors:
			if err != nil {
				log.Printf("watch: %v", err)
			}
		case <-settle.C:
			for _, path := range state.settled() {
				ingestOne(path, repo, classify, batchSize)
			}
		case <-rescan.C:
			state.markAll(dir)
		}
	}
}

func ingestOne(path string, repo repository.LogRepository, classify ClassifyFunc, batchSize int) {
	report, err := File(path, repo, classify, batchSize)
	if err != nil {
		log.Printf("watch: ingest %s: %v", path, err)
		return
	}
	if !report.Skipped {
		log.Printf("watch: ingested %s: %d accepted, %d rejected", path, report.Accepted, report.Rejected)
	}
}
