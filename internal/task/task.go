package task

import (
	"fmt"
	"sync"
	"time"
)

// Status is the lifecycle state of a task
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further work will happen for the task
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Kind names what a task does with its items
type Kind string

const (
	KindImport    Kind = "import"
	KindReprocess Kind = "reprocess"
)

// ItemStatus is the outcome of one item
type ItemStatus string

const (
	ItemSuccess ItemStatus = "success"
	ItemFailed  ItemStatus = "failed"
)

// Item is one unit of work. GameID is set when reprocessing an existing game.
type Item struct {
	URL    string
	GameID string
}

// ItemResult records what happened to one item
type ItemResult struct {
	URL     string     `json:"url"`
	GameID  string     `json:"game_id,omitempty"`
	Matchup string     `json:"matchup,omitempty"`
	Status  ItemStatus `json:"status"`
	Error   string     `json:"error,omitempty"`
}

// Snapshot is a point-in-time copy of a task, safe to hand to other goroutines
type Snapshot struct {
	ID             string       `json:"task_id"`
	Kind           Kind         `json:"kind"`
	UserID         string       `json:"user_id"`
	Status         Status       `json:"status"`
	Progress       int          `json:"progress"`
	TotalItems     int          `json:"total_items"`
	CompletedItems int          `json:"completed_items"`
	FailedItems    int          `json:"failed_items"`
	Results        []ItemResult `json:"results"`
	Errors         []string     `json:"errors"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Task is one batch of items. Only its runner mutates it.
type Task struct {
	mu sync.RWMutex

	id     string
	kind   Kind
	userID string
	total  int

	status    Status
	completed int
	failed    int
	progress  int
	results   []ItemResult
	errors    []string
	createdAt time.Time
	updatedAt time.Time

	now  func() time.Time
	done chan struct{}
}

func newTask(id string, kind Kind, userID string, total int, now func() time.Time) *Task {
	ts := now().UTC()
	return &Task{
		id:        id,
		kind:      kind,
		userID:    userID,
		total:     total,
		status:    StatusPending,
		results:   make([]ItemResult, 0, total),
		errors:    make([]string, 0),
		createdAt: ts,
		updatedAt: ts,
		now:       now,
		done:      make(chan struct{}),
	}
}

// ID returns the task id
func (t *Task) ID() string {
	return t.id
}

// Done is closed once the task reaches a terminal status
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Snapshot returns a deep copy of the task's current state
func (t *Task) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	results := make([]ItemResult, len(t.results))
	copy(results, t.results)
	errs := make([]string, len(t.errors))
	copy(errs, t.errors)

	return Snapshot{
		ID:             t.id,
		Kind:           t.kind,
		UserID:         t.userID,
		Status:         t.status,
		Progress:       t.progress,
		TotalItems:     t.total,
		CompletedItems: t.completed,
		FailedItems:    t.failed,
		Results:        results,
		Errors:         errs,
		CreatedAt:      t.createdAt,
		UpdatedAt:      t.updatedAt,
	}
}

func (t *Task) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusPending {
		t.status = StatusProcessing
	}
	t.touch()
}

func (t *Task) succeed(item Item, gameID, matchup string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results = append(t.results, ItemResult{
		URL:     item.URL,
		GameID:  gameID,
		Matchup: matchup,
		Status:  ItemSuccess,
	})
	t.completed++
	t.settle()
}

func (t *Task) fail(item Item, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failLocked(item, msg)
	t.settle()
}

func (t *Task) failLocked(item Item, msg string) {
	t.results = append(t.results, ItemResult{
		URL:    item.URL,
		GameID: item.GameID,
		Status: ItemFailed,
		Error:  msg,
	})
	t.errors = append(t.errors, msg)
	t.failed++
}

// abandon ends the task Completed before its runner got through every item. The rest
// are recorded as failed with reason so the counters still sum to the total.
func (t *Task) abandon(remaining []Item, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Terminal() {
		return
	}
	for _, item := range remaining {
		t.failLocked(item, itemError(item.URL, reason))
	}
	t.status = StatusCompleted
	t.touch()
	close(t.done)
}

// crash ends the task Failed. Counters and results are left as they were, so progress
// stays below 100; the reason is added to errors.
func (t *Task) crash(url, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Terminal() {
		return
	}
	t.errors = append(t.errors, itemError(url, reason))
	t.status = StatusFailed
	t.touch()
	close(t.done)
}

// settle completes the task in the same critical section as its last item, so no
// snapshot ever shows every item accounted for while still processing
func (t *Task) settle() {
	if t.completed+t.failed == t.total && !t.status.Terminal() {
		t.status = StatusCompleted
		close(t.done)
	}
	t.touch()
}

// touch recomputes progress and the update time; callers hold the write lock
func (t *Task) touch() {
	if t.total > 0 {
		t.progress = 100 * (t.completed + t.failed) / t.total
	}
	t.updatedAt = t.now().UTC()
}

func itemError(url, reason string) string {
	return fmt.Sprintf("Failed to process %s: %s", url, reason)
}
