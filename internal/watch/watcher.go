package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/config"
	"github.com/fsnotify/fsnotify"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
	"github.com/rs/zerolog"
)

// Processing priorities. Lower values run first.
const (
	PriorityScan   = 1
	PriorityCreate = 2
	PriorityModify = 3
)

// ProcessFunc handles one directory pulled off the queue.
type ProcessFunc func(ctx context.Context, dir string) error

// Stats is a point-in-time snapshot of watcher activity.
type Stats struct {
	EventsSeen     uint64
	EventsDropped  uint64
	TasksQueued    uint64
	TasksProcessed uint64
	TasksFailed    uint64
	QueueDepth     int
	PendingDirs    int
	ActiveDirs     int
}

// Watcher monitors configured directories and feeds changed media folders
// through a debouncer into a priority worker queue.
type Watcher struct {
	cfg     config.WatchConfig
	process ProcessFunc
	log     zerolog.Logger

	fsw       *fsnotify.Watcher
	filter    *EventFilter
	debouncer *Debouncer
	queue     *Queue
	active    *csmap.CsMap[string, time.Time]

	eventsSeen     atomic.Uint64
	eventsDropped  atomic.Uint64
	tasksQueued    atomic.Uint64
	tasksProcessed atomic.Uint64
	tasksFailed    atomic.Uint64
}

func New(cfg config.WatchConfig, process ProcessFunc, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create filesystem watcher: %w", err)
	}

	w := &Watcher{
		cfg:     cfg,
		process: process,
		log:     logger,
		fsw:     fsw,
		filter:  NewEventFilter(),
		queue:   NewQueue(),
		active:  csmap.Create[string, time.Time](),
	}
	w.debouncer = NewDebouncer(
		time.Duration(cfg.DebounceSeconds)*time.Second,
		cfg.MaxEventsPerSecond,
		w.enqueue,
	)

	return w, nil
}

// Run watches until the context is canceled. It blocks.
func (w *Watcher) Run(ctx context.Context) error {
	roots := 0
	for _, dir := range w.cfg.Directories {
		if !dir.Enabled {
			continue
		}
		if err := w.addWatch(dir.Path, dir.Recursive); err != nil {
			w.log.Warn().Err(err).Str("dir", dir.Path).Msg("failed to watch directory")
			continue
		}
		roots++

		if w.cfg.ScanOnStart {
			w.scanRoot(dir.Path)
		}
	}
	if roots == 0 {
		return fmt.Errorf("no watchable directories configured")
	}

	var wg sync.WaitGroup
	for i := 0; i < w.cfg.WorkerCount; i++ {
		wg.Add(1)
		go w.worker(ctx, &wg, i)
	}

	w.log.Info().Int("roots", roots).Int("workers", w.cfg.WorkerCount).Msg("watching for media changes")

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case event, ok := <-w.fsw.Events:
			if !ok {
				break loop
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				break loop
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}

	w.debouncer.Clear()
	w.queue.Close()
	wg.Wait()
	return w.fsw.Close()
}

// addWatch registers a directory and, when recursive, all subdirectories.
// fsnotify watches are not recursive on their own.
func (w *Watcher) addWatch(root string, recursive bool) error {
	if !recursive {
		return w.fsw.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && matchesIgnorePattern(d.Name()) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			w.log.Debug().Err(addErr).Str("dir", path).Msg("failed to add watch")
		}
		return nil
	})
}

// scanRoot enqueues every top-level media folder under a watch root.
func (w *Watcher) scanRoot(root string) {
	entries, err := os.ReadDir(root)
	if err != nil {
		w.log.Warn().Err(err).Str("dir", root).Msg("initial scan failed")
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if !w.filter.ShouldProcess(path) {
			continue
		}
		w.enqueue(path, PriorityScan)
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	w.eventsSeen.Add(1)

	// Deletions never need icon work
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}

	if !w.filter.ShouldProcess(event.Name) {
		w.eventsDropped.Add(1)
		return
	}

	// A newly created directory under a recursive root needs its own watch
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				w.log.Debug().Err(err).Str("dir", event.Name).Msg("failed to add watch")
			}
		}
	}

	priority := PriorityModify
	if event.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
		priority = PriorityCreate
	}

	dir := w.filter.RouteDir(event.Name)
	w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Str("dir", dir).Msg("event")
	w.debouncer.Schedule(dir, priority)
}

func (w *Watcher) enqueue(dir string, priority int) {
	if w.active.Has(dir) {
		w.eventsDropped.Add(1)
		return
	}
	if w.queue.Push(dir, priority) {
		w.tasksQueued.Add(1)
		w.log.Debug().Str("dir", dir).Int("priority", priority).Msg("queued")
	}
}

func (w *Watcher) worker(ctx context.Context, wg *sync.WaitGroup, id int) {
	defer wg.Done()

	for {
		task, ok := w.queue.Pop()
		if !ok {
			return
		}
		if ctx.Err() != nil {
			return
		}

		w.active.Store(task.Dir, time.Now())
		err := w.process(ctx, task.Dir)
		w.active.Delete(task.Dir)

		if err != nil {
			w.tasksFailed.Add(1)
			w.log.Error().Err(err).Int("worker", id).Str("dir", task.Dir).Msg("processing failed")
			continue
		}
		w.tasksProcessed.Add(1)
		w.log.Info().Int("worker", id).Str("dir", task.Dir).Msg("processed")
	}
}

// StatsSnapshot returns current watcher counters.
func (w *Watcher) StatsSnapshot() Stats {
	return Stats{
		EventsSeen:     w.eventsSeen.Load(),
		EventsDropped:  w.eventsDropped.Load(),
		TasksQueued:    w.tasksQueued.Load(),
		TasksProcessed: w.tasksProcessed.Load(),
		TasksFailed:    w.tasksFailed.Load(),
		QueueDepth:     w.queue.Len(),
		PendingDirs:    w.debouncer.Pending(),
		ActiveDirs:     w.active.Count(),
	}
}
