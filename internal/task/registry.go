package task

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/boxscores/internal/logger"
	"github.com/pfrederiksen/boxscores/internal/metrics"
)

// DefaultPaceDelay is the pause between consecutive items of one batch
const DefaultPaceDelay = 2 * time.Second

var (
	// ErrNoItems is returned when a job has nothing to do
	ErrNoItems = errors.New("task has no items")
	// ErrClosed is returned by Submit after Close
	ErrClosed = errors.New("task registry closed")
	// ErrNotFound is returned by Wait for an unknown task id
	ErrNotFound = errors.New("task not found")
)

// Outcome is what a processor reports for a successful item
type Outcome struct {
	GameID  string
	Matchup string
}

// Processor handles a single item. A returned error marks the item failed.
type Processor func(ctx context.Context, item Item) (Outcome, error)

// Job describes a batch to run
type Job struct {
	Kind    Kind
	UserID  string
	Items   []Item
	Process Processor
}

// Registry tracks every task in the process and runs submitted jobs
type Registry struct {
	mu     sync.RWMutex
	tasks  map[string]*Task
	closed bool

	pace time.Duration
	now  func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a registry whose runners wait pace between items.
// A zero or negative pace disables the delay.
func NewRegistry(pace time.Duration) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		tasks:  make(map[string]*Task),
		pace:   pace,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// createLocked registers a pending task; the caller holds r.mu
func (r *Registry) createLocked(kind Kind, userID string, total int) *Task {
	t := newTask(uuid.NewString(), kind, userID, total, r.now)
	r.tasks[t.id] = t
	return t
}

// Submit registers job as a new task, starts it in the background and returns its id
func (r *Registry) Submit(job Job) (string, error) {
	if len(job.Items) == 0 {
		return "", ErrNoItems
	}
	if job.Process == nil {
		return "", errors.New("task has no processor")
	}

	items := make([]Item, len(job.Items))
	copy(items, job.Items)
	job.Items = items

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", ErrClosed
	}
	t := r.createLocked(job.Kind, job.UserID, len(items))
	r.wg.Add(1)
	r.mu.Unlock()

	metrics.TasksSubmitted.WithLabelValues(string(job.Kind)).Inc()
	logger.Info("Task submitted", logger.Fields{
		"task_id":     t.id,
		"kind":        job.Kind,
		"user_id":     job.UserID,
		"total_items": len(items),
	})

	go r.run(t, job)
	return t.id, nil
}

// Get returns a snapshot of the task with id
func (r *Registry) Get(id string) (Snapshot, bool) {
	r.mu.RLock()
	t, ok := r.tasks[id]
	r.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}
	return t.Snapshot(), true
}

// List returns snapshots of every task, newest first
func (r *Registry) List() []Snapshot {
	r.mu.RLock()
	tasks := make([]*Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t)
	}
	r.mu.RUnlock()

	out := make([]Snapshot, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Wait blocks until the task with id is terminal or ctx is done
func (r *Registry) Wait(ctx context.Context, id string) (Snapshot, error) {
	r.mu.RLock()
	t, ok := r.tasks[id]
	r.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	select {
	case <-t.Done():
		return t.Snapshot(), nil
	case <-ctx.Done():
		return t.Snapshot(), ctx.Err()
	}
}

// Close stops accepting jobs, cancels running ones and waits for their runners to exit.
// Unprocessed items of cancelled tasks are recorded as failed.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()
	r.wg.Wait()
}
