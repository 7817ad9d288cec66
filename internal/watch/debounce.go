package watch

import (
	"path/filepath"
	"sync"
	"time"
)

// rateWindow is the sliding window used to drop event storms.
const rateWindow = time.Second

type pendingEvent struct {
	priority int
	timer    *time.Timer
}

// Debouncer coalesces bursts of events per directory. Each new event resets
// the directory's quiet-period timer; the fire callback runs only once the
// directory has been quiet for the full debounce interval. Priorities only
// ever upgrade while an event is pending.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]*pendingEvent
	recent   []time.Time
	debounce time.Duration
	maxRate  int
	fire     func(dir string, priority int)
}

func NewDebouncer(debounce time.Duration, maxEventsPerSecond int, fire func(dir string, priority int)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]*pendingEvent),
		debounce: debounce,
		maxRate:  maxEventsPerSecond,
		fire:     fire,
	}
}

// Schedule registers an event for the directory. Events beyond the rate
// limit are dropped unless the directory is already pending, in which case
// the existing entry still fires.
func (d *Debouncer) Schedule(dir string, priority int) {
	dir = filepath.Clean(dir)

	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	d.recent = append(d.recent, now)
	d.trimRecentLocked(now)

	entry, exists := d.pending[dir]
	if !exists {
		if len(d.recent) > d.maxRate {
			return
		}
		entry = &pendingEvent{priority: priority}
		d.pending[dir] = entry
	} else {
		entry.timer.Stop()
		if priority < entry.priority {
			entry.priority = priority
		}
	}

	entry.timer = time.AfterFunc(d.debounce, func() {
		d.fireDir(dir)
	})
}

func (d *Debouncer) fireDir(dir string) {
	d.mu.Lock()
	entry, ok := d.pending[dir]
	if !ok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, dir)
	priority := entry.priority
	d.mu.Unlock()

	d.fire(dir, priority)
}

func (d *Debouncer) trimRecentLocked(now time.Time) {
	cutoff := now.Add(-rateWindow)
	i := 0
	for i < len(d.recent) && d.recent[i].Before(cutoff) {
		i++
	}
	d.recent = d.recent[i:]
}

// Pending returns the number of directories waiting to fire.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Clear cancels every pending timer.
func (d *Debouncer) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, entry := range d.pending {
		entry.timer.Stop()
	}
	d.pending = make(map[string]*pendingEvent)
}
