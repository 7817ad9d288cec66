package watch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fireRecorder struct {
	mu    sync.Mutex
	dirs  []string
	prios []int
}

func (r *fireRecorder) fire(dir string, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirs = append(r.dirs, dir)
	r.prios = append(r.prios, priority)
}

func (r *fireRecorder) snapshot() ([]string, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.dirs...), append([]int(nil), r.prios...)
}

func waitForFires(t *testing.T, r *fireRecorder, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		dirs, _ := r.snapshot()
		if len(dirs) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	dirs, _ := r.snapshot()
	t.Fatalf("timed out waiting for %d fires, got %d", want, len(dirs))
}

func TestDebouncerFiresAfterQuietPeriod(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(20*time.Millisecond, 100, rec.fire)

	d.Schedule("/media/show", PriorityCreate)
	assert.Equal(t, 1, d.Pending())

	waitForFires(t, rec, 1)
	dirs, prios := rec.snapshot()
	assert.Equal(t, []string{"/media/show"}, dirs)
	assert.Equal(t, []int{PriorityCreate}, prios)
	assert.Equal(t, 0, d.Pending())
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(30*time.Millisecond, 100, rec.fire)

	// A burst of events for the same directory fires only once
	for i := 0; i < 5; i++ {
		d.Schedule("/media/show", PriorityModify)
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, d.Pending())

	waitForFires(t, rec, 1)
	time.Sleep(50 * time.Millisecond)

	dirs, _ := rec.snapshot()
	assert.Equal(t, []string{"/media/show"}, dirs)
}

func TestDebouncerKeepsMostUrgentPriority(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(30*time.Millisecond, 100, rec.fire)

	d.Schedule("/media/show", PriorityModify)
	d.Schedule("/media/show", PriorityCreate)
	// A later, less urgent event must not downgrade the pending entry
	d.Schedule("/media/show", PriorityModify)

	waitForFires(t, rec, 1)
	_, prios := rec.snapshot()
	assert.Equal(t, []int{PriorityCreate}, prios)
}

func TestDebouncerTracksDirsIndependently(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(20*time.Millisecond, 100, rec.fire)

	d.Schedule("/media/a", PriorityCreate)
	d.Schedule("/media/b", PriorityModify)
	assert.Equal(t, 2, d.Pending())

	waitForFires(t, rec, 2)
	dirs, _ := rec.snapshot()
	assert.ElementsMatch(t, []string{"/media/a", "/media/b"}, dirs)
}

func TestDebouncerRateLimitDropsNewDirs(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(20*time.Millisecond, 2, rec.fire)

	// The first two distinct directories fit the window, the third is dropped
	d.Schedule("/media/a", PriorityCreate)
	d.Schedule("/media/b", PriorityCreate)
	d.Schedule("/media/c", PriorityCreate)
	assert.Equal(t, 2, d.Pending())

	waitForFires(t, rec, 2)
	dirs, _ := rec.snapshot()
	assert.ElementsMatch(t, []string{"/media/a", "/media/b"}, dirs)
}

func TestDebouncerRateLimitKeepsPendingDirs(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(50*time.Millisecond, 1, rec.fire)

	d.Schedule("/media/show", PriorityModify)
	// Over the rate limit, but the directory is already pending so the
	// timer still resets and the priority still upgrades
	d.Schedule("/media/show", PriorityCreate)
	d.Schedule("/media/show", PriorityModify)
	require.Equal(t, 1, d.Pending())

	waitForFires(t, rec, 1)
	_, prios := rec.snapshot()
	assert.Equal(t, []int{PriorityCreate}, prios)
}

func TestDebouncerClear(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(30*time.Millisecond, 100, rec.fire)

	d.Schedule("/media/a", PriorityCreate)
	d.Schedule("/media/b", PriorityCreate)
	d.Clear()
	assert.Equal(t, 0, d.Pending())

	time.Sleep(60 * time.Millisecond)
	dirs, _ := rec.snapshot()
	assert.Empty(t, dirs, "cleared entries must not fire")
}

func TestDebouncerCleansEventPaths(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(20*time.Millisecond, 100, rec.fire)

	// The same directory through different spellings coalesces
	d.Schedule("/media/show/", PriorityModify)
	d.Schedule("/media/show", PriorityCreate)
	assert.Equal(t, 1, d.Pending())

	waitForFires(t, rec, 1)
	dirs, prios := rec.snapshot()
	assert.Equal(t, []string{"/media/show"}, dirs)
	assert.Equal(t, []int{PriorityCreate}, prios)
}
