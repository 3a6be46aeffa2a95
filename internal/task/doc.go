// Package task runs bulk box score imports in the background and tracks their progress.
//
// A Registry owns every task created in the process. Submit creates a pending task,
// starts a goroutine that works through the items one at a time with a pacing delay
// between them, and returns the task id at once. Callers poll Get for a snapshot of the
// counters, per-item results and errors until the task reaches a terminal status.
//
// A failing item never stops its batch: it is recorded and the runner moves on. Once
// every item is accounted for the task is completed, however many of its items failed.
package task
