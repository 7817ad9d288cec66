package watch

import (
	"container/heap"
	"sync"
	"time"
)

// Task is a directory queued for processing. Lower priority values are more
// urgent; equal priorities run in arrival order.
type Task struct {
	Dir      string
	Priority int
	Enqueued time.Time
	seq      uint64
}

type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(*Task)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return task
}

// Queue is a blocking priority queue with per-directory deduplication.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  taskHeap
	queued map[string]bool
	seq    uint64
	closed bool
}

func NewQueue() *Queue {
	q := &Queue{queued: make(map[string]bool)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues a directory. It returns false when the directory is already
// queued or the queue is closed.
func (q *Queue) Push(dir string, priority int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.queued[dir] {
		return false
	}

	q.seq++
	heap.Push(&q.tasks, &Task{
		Dir:      dir,
		Priority: priority,
		Enqueued: time.Now(),
		seq:      q.seq,
	})
	q.queued[dir] = true
	q.cond.Signal()
	return true
}

// Pop blocks until a task is available or the queue is closed. The second
// return value is false once the queue is closed and drained.
func (q *Queue) Pop() (*Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.tasks) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.tasks) == 0 {
		return nil, false
	}

	task := heap.Pop(&q.tasks).(*Task)
	delete(q.queued, task.Dir)
	return task, true
}

// Close wakes all blocked consumers. Remaining tasks are still drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
