package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pfrederiksen/boxscores/internal/api/respond"
	"github.com/pfrederiksen/boxscores/internal/task"
)

// ListTasks returns the caller's tasks, newest first.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	out := make([]task.Snapshot, 0)
	for _, snap := range h.tasks.List() {
		if snap.UserID == userID {
			out = append(out, snap)
		}
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"tasks": out,
		"count": len(out),
	})
}

// GetTask returns the status snapshot of one of the caller's tasks.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.tasks.Get(chi.URLParam(r, "id"))
	if !ok || snap.UserID != UserID(r.Context()) {
		respond.WriteError(w, http.StatusNotFound, "not_found", "task not found")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, snap)
}
