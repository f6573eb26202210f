package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/redact"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// TaskHandler handles task-related HTTP requests.
// Every operation is scoped to the authenticated user: existence is checked
// first (404), then ownership (401), so the two remain distinguishable.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks requests.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("task validation failed", slog.String("error", redact.Error(err)))
		shared.RespondWithValidationErrors(w, r, buildValidationErrors(err))
		return
	}

	task, err := domain.NewTask(userID, req.Title, req.Description)
	if err != nil {
		// A whitespace-only title survives the struct tag but not the
		// domain's trim.
		log.Warn("invalid task data", slog.String("error", redact.Error(err)))
		shared.RespondWithValidationErrors(w, r, []shared.FieldError{
			{Field: "title", Message: "is required"},
		})
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// List handles GET /tasks requests.
// Query parameters: page (default 1), limit (default 10), completed
// (true/false, anything else means unfiltered). An empty collection yields
// 200 with totalPages 0; a page beyond the last yields 404.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	page := parsePositiveIntQuery(r, "page", 1)
	limit := parsePositiveIntQuery(r, "limit", 10)

	var filter store.TaskFilter
	switch strings.ToLower(r.URL.Query().Get("completed")) {
	case "true":
		completed := true
		filter.Completed = &completed
	case "false":
		completed := false
		filter.Completed = &completed
	}

	result, err := h.taskStore.List(r.Context(), userID, filter, page, limit)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	if result.TotalTasks > 0 && page > result.TotalPages {
		log.Debug("page out of range",
			slog.Int("page", page),
			slog.Int("total_pages", result.TotalPages),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusNotFound, "Page not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks:      tasksToResponse(result.Tasks),
		Page:       result.Page,
		TotalTasks: result.TotalTasks,
		TotalPages: result.TotalPages,
		Limit:      result.Limit,
	})
}

// Get handles GET /tasks/{id} requests.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.fetchOwnedTask(w, r, userID, taskID)
	if err != nil {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Update handles PUT /tasks/{id} requests.
// Only the fields present in the request are applied: absent or blank title
// and description keep their prior values; completed is overwritten whenever
// provided, including false.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.fetchOwnedTask(w, r, userID, taskID)
	if err != nil {
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", taskID.String()))
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task updated", slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /tasks/{id} requests.
// Success is signaled with 204 and no body.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if _, err := h.fetchOwnedTask(w, r, userID, taskID); err != nil {
		return
	}

	if err := h.taskStore.Delete(r.Context(), taskID); err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", taskID.String()))
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task deleted", slog.String("task_id", taskID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// fetchOwnedTask loads the task and enforces the existence-then-ownership
// order: a missing task answers 404, a task owned by someone else 401.
// When it returns a non-nil error the response has already been written.
func (h *TaskHandler) fetchOwnedTask(
	w http.ResponseWriter,
	r *http.Request,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return nil, err
		}
		log.Error("failed to get task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", taskID.String()))
		HandleAPIError(w, r, err, "")
		return nil, err
	}

	if !task.IsOwnedBy(userID) {
		log.Warn("ownership check failed",
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return nil, domain.ErrUnauthorized
	}

	return task, nil
}

// parsePositiveIntQuery reads a positive integer query parameter, falling
// back to def when the parameter is absent, malformed or non-positive.
func parsePositiveIntQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
