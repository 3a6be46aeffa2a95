package task

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/boxscores/internal/logger"
	"github.com/pfrederiksen/boxscores/internal/metrics"
)

// run works through the job's items in order, one at a time
func (r *Registry) run(t *Task, job Job) {
	defer r.wg.Done()

	metrics.TasksActive.Inc()
	defer metrics.TasksActive.Dec()

	log := logger.Default().With(logger.Fields{"task_id": t.id, "kind": job.Kind})
	next := 0
	defer func() {
		if p := recover(); p != nil {
			reason := fmt.Sprintf("task runner stopped: %v", p)
			log.Error("Task runner panicked", logger.Fields{"item_index": next}, fmt.Errorf("%v", p))
			url := ""
			if next < len(job.Items) {
				url = job.Items[next].URL
			}
			t.crash(url, reason)
		}
		snap := t.Snapshot()
		log.Info("Task finished", logger.Fields{
			"status":          snap.Status,
			"completed_items": snap.CompletedItems,
			"failed_items":    snap.FailedItems,
		})
	}()

	t.start()
	for next < len(job.Items) {
		item := job.Items[next]
		if next > 0 && !pause(r.ctx, r.pace) {
			break
		}
		if r.ctx.Err() != nil {
			break
		}

		out, err := job.Process(r.ctx, item)
		if err != nil {
			t.fail(item, itemError(item.URL, err.Error()))
			metrics.RecordItem(string(job.Kind), string(ItemFailed))
			log.Warn("Item failed", logger.Fields{"url": item.URL, "error": err.Error()})
		} else {
			t.succeed(item, out.GameID, out.Matchup)
			metrics.RecordItem(string(job.Kind), string(ItemSuccess))
			log.Info("Item processed", logger.Fields{"url": item.URL, "game_id": out.GameID, "matchup": out.Matchup})
		}
		next++
	}

	if next < len(job.Items) {
		t.abandon(job.Items[next:], "cancelled: "+r.ctx.Err().Error())
	}
}

// pause waits d, returning false if ctx ends first
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
