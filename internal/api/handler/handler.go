// Package handler provides HTTP handlers for all API endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pfrederiksen/boxscores/internal/api/respond"
	"github.com/pfrederiksen/boxscores/internal/storage"
	"github.com/pfrederiksen/boxscores/internal/task"
)

// maxBodyBytes bounds request bodies; bulk text for a season fits comfortably
const maxBodyBytes = 1 << 20

// GameStore reads and deletes a user's stored games
type GameStore interface {
	List(ctx context.Context, userID string) ([]*storage.Game, error)
	Get(ctx context.Context, id string) (*storage.Game, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Importer turns locators into stored games and batch jobs
type Importer interface {
	Import(ctx context.Context, userID, locator, fallbackDate string) (*storage.Game, error)
	ImportJob(userID, text string) (task.Job, error)
	ReprocessJob(userID string, games []*storage.Game) task.Job
}

// Tasks submits and reports batch tasks
type Tasks interface {
	Submit(job task.Job) (string, error)
	Get(id string) (task.Snapshot, bool)
	List() []task.Snapshot
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	games    GameStore
	importer Importer
	tasks    Tasks
}

// New creates a Handler with shared dependencies.
func New(games GameStore, importer Importer, tasks Tasks) *Handler {
	return &Handler{games: games, importer: importer, tasks: tasks}
}

// HealthCheck returns basic health status. An unreachable store reports 503.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if err := h.games.Ping(r.Context()); err != nil {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	respond.WriteJSONObject(w, code, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type userKey struct{}

// WithUserID stores the owning principal in ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID returns the principal stored by WithUserID
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			return jsonName(f.Tag.Get("json"), f.Name)
		})
	})
	return validate
}

// decode reads a JSON body into v and validates it, writing the error response itself.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", err.Error())
		return false
	}
	if err := validatorInstance().Struct(v); err != nil {
		respond.WriteErrorDetail(w, http.StatusUnprocessableEntity, "invalid_request", "request body failed validation", describe(err))
		return false
	}
	return true
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func jsonName(tag, fallback string) string {
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "" || name == "-" {
		return fallback
	}
	return name
}
