package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pfrederiksen/boxscores/internal/api/respond"
	"github.com/pfrederiksen/boxscores/internal/locator"
	"github.com/pfrederiksen/boxscores/internal/logger"
	"github.com/pfrederiksen/boxscores/internal/storage"
	"github.com/pfrederiksen/boxscores/internal/task"
)

// CreateGameRequest imports one box score
type CreateGameRequest struct {
	URL          string `json:"url" validate:"required,url"`
	DateAttended string `json:"date_attended,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// BulkImportRequest carries free-form text with one box score URL per line
type BulkImportRequest struct {
	URLs string `json:"urls" validate:"required"`
}

// TaskAccepted is returned when a batch is queued
type TaskAccepted struct {
	TaskID     string `json:"task_id"`
	TotalItems int    `json:"total_items"`
	Message    string `json:"message"`
}

// CreateGame fetches, parses and stores a single game synchronously.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if !decode(w, r, &req) {
		return
	}

	g, err := h.importer.Import(r.Context(), UserID(r.Context()), req.URL, req.DateAttended)
	if err != nil {
		logger.Error("Game import failed", logger.Fields{"url": req.URL}, err)
		respond.WriteErrorDetail(w, http.StatusBadGateway, "import_failed", "could not import box score", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusCreated, g)
}

// ListGames returns the caller's games without their stat lines.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.List(r.Context(), UserID(r.Context()))
	if err != nil {
		logger.Error("Listing games failed", nil, err)
		respond.WriteError(w, http.StatusInternalServerError, "storage_error", "could not list games")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// GetGame returns one of the caller's games with its player and team lines.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := h.ownedGame(w, r)
	if !ok {
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, g)
}

// DeleteGame removes one of the caller's games.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	g, ok := h.ownedGame(w, r)
	if !ok {
		return
	}
	if err := h.games.Delete(r.Context(), g.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "not_found", "game not found")
			return
		}
		logger.Error("Deleting game failed", logger.Fields{"game_id": g.ID}, err)
		respond.WriteError(w, http.StatusInternalServerError, "storage_error", "could not delete game")
		return
	}
	respond.WriteNoContent(w)
}

// BulkImport queues a background import of every URL found in the request text.
func (h *Handler) BulkImport(w http.ResponseWriter, r *http.Request) {
	var req BulkImportRequest
	if !decode(w, r, &req) {
		return
	}

	job, err := h.importer.ImportJob(UserID(r.Context()), req.URLs)
	if err != nil {
		if errors.Is(err, locator.ErrNoLocators) {
			respond.WriteError(w, http.StatusBadRequest, "no_valid_urls", err.Error())
			return
		}
		respond.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.submit(w, job, "bulk import started")
}

// ReprocessGames queues a background re-parse of all the caller's stored games.
func (h *Handler) ReprocessGames(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	games, err := h.games.List(r.Context(), userID)
	if err != nil {
		logger.Error("Listing games failed", nil, err)
		respond.WriteError(w, http.StatusInternalServerError, "storage_error", "could not list games")
		return
	}
	if len(games) == 0 {
		respond.WriteError(w, http.StatusBadRequest, "no_games", "no games to reprocess")
		return
	}
	h.submit(w, h.importer.ReprocessJob(userID, games), "reprocessing started")
}

func (h *Handler) submit(w http.ResponseWriter, job task.Job, message string) {
	id, err := h.tasks.Submit(job)
	if err != nil {
		if errors.Is(err, task.ErrNoItems) {
			respond.WriteError(w, http.StatusBadRequest, "no_items", err.Error())
			return
		}
		respond.WriteError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusAccepted, TaskAccepted{
		TaskID:     id,
		TotalItems: len(job.Items),
		Message:    message,
	})
}

// ownedGame loads the {id} game and hides games owned by someone else
func (h *Handler) ownedGame(w http.ResponseWriter, r *http.Request) (*storage.Game, bool) {
	id := chi.URLParam(r, "id")
	g, err := h.games.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "not_found", "game not found")
			return nil, false
		}
		logger.Error("Loading game failed", logger.Fields{"game_id": id}, err)
		respond.WriteError(w, http.StatusInternalServerError, "storage_error", "could not load game")
		return nil, false
	}
	if g.UserID != UserID(r.Context()) {
		respond.WriteError(w, http.StatusNotFound, "not_found", "game not found")
		return nil, false
	}
	return g, true
}
