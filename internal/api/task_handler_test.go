package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAuthedRequest builds a request carrying the authenticated user ID,
// and optionally a chi path parameter named "id".
func newAuthedRequest(method, target string, body io.Reader, userID uuid.UUID, pathID string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	if pathID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", pathID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

// seedTask inserts a task with a fixed creation time into the mock store.
func seedTask(store *mocks.MockTaskStore, userID uuid.UUID, title string, completed bool, createdAt time.Time) *domain.Task {
	task := &domain.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: "",
		Completed:   completed,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	store.Tasks[task.ID] = task
	return task
}

func TestTaskCreate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		payload    string
		wantStatus int
	}{
		{
			name:       "valid task",
			payload:    `{"title": "Buy groceries", "description": "Milk and eggs"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "title only",
			payload:    `{"title": "Buy groceries"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			payload:    `{"description": "Milk"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "whitespace-only title",
			payload:    `{"title": "   "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed JSON",
			payload:    `{"title": `,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			taskStore := mocks.NewMockTaskStore()
			handler := NewTaskHandler(taskStore, nil)

			recorder := httptest.NewRecorder()
			req := newAuthedRequest("POST", "/api/tasks", bytes.NewBufferString(tt.payload), userID, "")
			handler.Create(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp TaskResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "Buy groceries", resp.Title)
				assert.False(t, resp.Completed)

				taskID, err := uuid.Parse(resp.ID)
				require.NoError(t, err)
				stored, ok := taskStore.Tasks[taskID]
				require.True(t, ok, "task should be persisted")
				assert.Equal(t, userID, stored.UserID)
			}
		})
	}
}

func TestTaskCreate_RequiresAuthContext(t *testing.T) {
	t.Parallel()

	handler := NewTaskHandler(mocks.NewMockTaskStore(), nil)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/tasks", bytes.NewBufferString(`{"title":"x"}`))
	handler.Create(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestTaskGet(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherUserID := uuid.New()

	taskStore := mocks.NewMockTaskStore()
	ownTask := seedTask(taskStore, userID, "Mine", false, time.Now().UTC())
	foreignTask := seedTask(taskStore, otherUserID, "Theirs", false, time.Now().UTC())

	handler := NewTaskHandler(taskStore, nil)

	tests := []struct {
		name       string
		pathID     string
		wantStatus int
	}{
		{
			name:       "own task",
			pathID:     ownTask.ID.String(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing task",
			pathID:     uuid.New().String(),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "another user's task",
			pathID:     foreignTask.ID.String(),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed id",
			pathID:     "not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recorder := httptest.NewRecorder()
			req := newAuthedRequest("GET", "/api/tasks/"+tt.pathID, nil, userID, tt.pathID)
			handler.Get(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusOK {
				var resp TaskResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, ownTask.ID.String(), resp.ID)
				assert.Equal(t, "Mine", resp.Title)
			}
		})
	}
}

func TestTaskUpdate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name      string
		payload   string
		startDone bool
		wantTitle string
		wantDesc  string
		wantDone  bool
	}{
		{
			name:      "full update",
			payload:   `{"title": "New title", "description": "New desc", "completed": true}`,
			wantTitle: "New title",
			wantDesc:  "New desc",
			wantDone:  true,
		},
		{
			name:      "completed only",
			payload:   `{"completed": true}`,
			wantTitle: "Old title",
			wantDesc:  "Old desc",
			wantDone:  true,
		},
		{
			name:      "completed false is applied",
			payload:   `{"title": "New title", "completed": false}`,
			startDone: true,
			wantTitle: "New title",
			wantDesc:  "Old desc",
			wantDone:  false,
		},
		{
			name:      "blank title keeps prior value",
			payload:   `{"title": "   ", "description": "New desc"}`,
			wantTitle: "Old title",
			wantDesc:  "New desc",
			wantDone:  false,
		},
		{
			name:      "empty description keeps prior value",
			payload:   `{"description": ""}`,
			wantTitle: "Old title",
			wantDesc:  "Old desc",
			wantDone:  false,
		},
		{
			name:      "blank description keeps prior value",
			payload:   `{"title": "New title", "description": "   "}`,
			wantTitle: "New title",
			wantDesc:  "Old desc",
			wantDone:  false,
		},
		{
			name:      "empty body changes nothing",
			payload:   `{}`,
			wantTitle: "Old title",
			wantDesc:  "Old desc",
			wantDone:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			taskStore := mocks.NewMockTaskStore()
			task := seedTask(taskStore, userID, "Old title", tt.startDone, time.Now().UTC())
			task.Description = "Old desc"

			handler := NewTaskHandler(taskStore, nil)

			recorder := httptest.NewRecorder()
			req := newAuthedRequest("PUT", "/api/tasks/"+task.ID.String(),
				bytes.NewBufferString(tt.payload), userID, task.ID.String())
			handler.Update(recorder, req)

			require.Equal(t, http.StatusOK, recorder.Code)

			var resp TaskResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
			assert.Equal(t, tt.wantTitle, resp.Title)
			assert.Equal(t, tt.wantDesc, resp.Description)
			assert.Equal(t, tt.wantDone, resp.Completed)

			stored := taskStore.Tasks[task.ID]
			assert.Equal(t, tt.wantTitle, stored.Title)
			assert.Equal(t, tt.wantDone, stored.Completed)
		})
	}
}

func TestTaskUpdate_Errors(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(mocks.NewMockTaskStore(), nil)
		missingID := uuid.New().String()

		recorder := httptest.NewRecorder()
		req := newAuthedRequest("PUT", "/api/tasks/"+missingID,
			bytes.NewBufferString(`{"completed": true}`), userID, missingID)
		handler.Update(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("another user's task", func(t *testing.T) {
		t.Parallel()

		taskStore := mocks.NewMockTaskStore()
		foreign := seedTask(taskStore, uuid.New(), "Theirs", false, time.Now().UTC())
		handler := NewTaskHandler(taskStore, nil)

		recorder := httptest.NewRecorder()
		req := newAuthedRequest("PUT", "/api/tasks/"+foreign.ID.String(),
			bytes.NewBufferString(`{"completed": true}`), userID, foreign.ID.String())
		handler.Update(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, taskStore.Tasks[foreign.ID].Completed, "foreign task must not change")
	})
}

func TestTaskDelete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("own task", func(t *testing.T) {
		t.Parallel()

		taskStore := mocks.NewMockTaskStore()
		task := seedTask(taskStore, userID, "Mine", false, time.Now().UTC())
		handler := NewTaskHandler(taskStore, nil)

		recorder := httptest.NewRecorder()
		req := newAuthedRequest("DELETE", "/api/tasks/"+task.ID.String(), nil, userID, task.ID.String())
		handler.Delete(recorder, req)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, recorder.Body.Bytes(), "204 must not carry a body")
		assert.NotContains(t, taskStore.Tasks, task.ID)
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(mocks.NewMockTaskStore(), nil)
		missingID := uuid.New().String()

		recorder := httptest.NewRecorder()
		req := newAuthedRequest("DELETE", "/api/tasks/"+missingID, nil, userID, missingID)
		handler.Delete(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("another user's task survives", func(t *testing.T) {
		t.Parallel()

		taskStore := mocks.NewMockTaskStore()
		foreign := seedTask(taskStore, uuid.New(), "Theirs", false, time.Now().UTC())
		handler := NewTaskHandler(taskStore, nil)

		recorder := httptest.NewRecorder()
		req := newAuthedRequest("DELETE", "/api/tasks/"+foreign.ID.String(), nil, userID, foreign.ID.String())
		handler.Delete(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, taskStore.Tasks, foreign.ID)
	})
}

func TestTaskList(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherUserID := uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	newStore := func() *mocks.MockTaskStore {
		taskStore := mocks.NewMockTaskStore()
		// 25 tasks for the user, newest last in insertion order; every
		// third one completed. One foreign task that must never appear.
		for i := 0; i < 25; i++ {
			seedTask(taskStore, userID, fmt.Sprintf("Task %d", i), i%3 == 0, base.Add(time.Duration(i)*time.Minute))
		}
		seedTask(taskStore, otherUserID, "Foreign", false, base.Add(time.Hour))
		return taskStore
	}

	t.Run("defaults to first page of ten", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(newStore(), nil)

		recorder := httptest.NewRecorder()
		handler.List(recorder, newAuthedRequest("GET", "/api/tasks", nil, userID, ""))

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TaskListResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Len(t, resp.Tasks, 10)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 10, resp.Limit)
		assert.Equal(t, 25, resp.TotalTasks)
		assert.Equal(t, 3, resp.TotalPages)

		// Newest first.
		assert.Equal(t, "Task 24", resp.Tasks[0].Title)
		assert.Equal(t, "Task 15", resp.Tasks[9].Title)
	})

	t.Run("last page is partial", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(newStore(), nil)

		recorder := httptest.NewRecorder()
		handler.List(recorder, newAuthedRequest("GET", "/api/tasks?page=3", nil, userID, ""))

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TaskListResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Len(t, resp.Tasks, 5)
		assert.Equal(t, 3, resp.Page)
	})

	t.Run("page past the end answers 404", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(newStore(), nil)

		recorder := httptest.NewRecorder()
		handler.List(recorder, newAuthedRequest("GET", "/api/tasks?page=4", nil, userID, ""))

		assert.Equal(t, http.StatusNotFound, recorder.Code)

		var errResp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
		assert.Equal(t, "Page not found", errResp.Message)
	})

	t.Run("empty collection answers 200", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(mocks.NewMockTaskStore(), nil)

		recorder := httptest.NewRecorder()
		handler.List(recorder, newAuthedRequest("GET", "/api/tasks", nil, userID, ""))

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TaskListResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Empty(t, resp.Tasks)
		assert.Equal(t, 0, resp.TotalTasks)
		assert.Equal(t, 0, resp.TotalPages)

		// tasks must serialize as [], not null
		assert.NotNil(t, resp.Tasks)
	})

	t.Run("completed filter", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(newStore(), nil)

		recorder := httptest.NewRecorder()
		handler.List(recorder, newAuthedRequest("GET", "/api/tasks?completed=true&limit=100", nil, userID, ""))

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TaskListResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, 9, resp.TotalTasks)
		for _, task := range resp.Tasks {
			assert.True(t, task.Completed)
		}
	})

	t.Run("pending filter", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(newStore(), nil)

		recorder := httptest.NewRecorder()
		handler.List(recorder, newAuthedRequest("GET", "/api/tasks?completed=false&limit=100", nil, userID, ""))

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TaskListResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, 16, resp.TotalTasks)
		for _, task := range resp.Tasks {
			assert.False(t, task.Completed)
		}
	})

	t.Run("malformed pagination falls back to defaults", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(newStore(), nil)

		recorder := httptest.NewRecorder()
		handler.List(recorder, newAuthedRequest("GET", "/api/tasks?page=abc&limit=-5", nil, userID, ""))

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TaskListResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 10, resp.Limit)
	})

	t.Run("never lists another user's tasks", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(newStore(), nil)

		recorder := httptest.NewRecorder()
		handler.List(recorder, newAuthedRequest("GET", "/api/tasks?limit=100", nil, userID, ""))

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TaskListResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, 25, resp.TotalTasks)
		for _, task := range resp.Tasks {
			assert.NotEqual(t, "Foreign", task.Title)
		}
	})
}
