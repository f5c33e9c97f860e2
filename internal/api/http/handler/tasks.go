package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/taskmanager/internal/api/grpc/apiv1"
	"github.com/dtroode/taskmanager/internal/apierrors"
	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/tasklist"
)

// TasksService defines operations on the authenticated user's task list.
type TasksService interface {
	GetRecord(ctx context.Context, userID uuid.UUID) (model.UserRecord, error)
	ListTasks(ctx context.Context, userID uuid.UUID, filter model.TaskFilter) ([]model.Task, error)
	AddTask(ctx context.Context, userID uuid.UUID, text string) (model.UserRecord, error)
	DeleteTask(ctx context.Context, userID uuid.UUID, taskID string) (model.UserRecord, error)
	ToggleTask(ctx context.Context, userID uuid.UUID, taskID string) (model.UserRecord, error)
	UpdateTask(ctx context.Context, userID uuid.UUID, taskID, text string) (model.UserRecord, error)
}

// Tasks serves /v1/me and /v1/tasks.
type Tasks struct {
	tasksService   TasksService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewTasks creates a new Tasks handler.
func NewTasks(tasksService TasksService, contextManager model.ContextManager, logger *logger.Logger) *Tasks {
	return &Tasks{tasksService: tasksService, contextManager: contextManager, logger: logger}
}

func (h *Tasks) GetRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		WriteError(w, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	record, err := h.tasksService.GetRecord(r.Context(), userID)
	if err != nil {
		h.logger.Error("Tasks handler: get record failed", "user_id", userID, "error", err.Error())
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toRecord(record))
}

func (h *Tasks) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		WriteError(w, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	filter, err := tasklist.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		WriteError(w, apierrors.NewErrInvalidArgument(err.Error()))
		return
	}

	tasks, err := h.tasksService.ListTasks(r.Context(), userID, filter)
	if err != nil {
		h.logger.Error("Tasks handler: list tasks failed", "user_id", userID, "error", err.Error())
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, apiv1.ListTasksResponse{Tasks: toTasks(tasks)})
}

func (h *Tasks) AddTask(w http.ResponseWriter, r *http.Request) {
	var req apiv1.AddTaskRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	h.mutate(w, r, http.StatusCreated, "add task", func(ctx context.Context, userID uuid.UUID) (model.UserRecord, error) {
		return h.tasksService.AddTask(ctx, userID, req.Task)
	})
}

func (h *Tasks) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req apiv1.UpdateTaskRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	id := chi.URLParam(r, "id")

	h.mutate(w, r, http.StatusOK, "update task", func(ctx context.Context, userID uuid.UUID) (model.UserRecord, error) {
		return h.tasksService.UpdateTask(ctx, userID, id, req.Task)
	})
}

func (h *Tasks) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mutate(w, r, http.StatusOK, "toggle task", func(ctx context.Context, userID uuid.UUID) (model.UserRecord, error) {
		return h.tasksService.ToggleTask(ctx, userID, id)
	})
}

func (h *Tasks) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mutate(w, r, http.StatusOK, "delete task", func(ctx context.Context, userID uuid.UUID) (model.UserRecord, error) {
		return h.tasksService.DeleteTask(ctx, userID, id)
	})
}

func (h *Tasks) mutate(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	op string,
	call func(context.Context, uuid.UUID) (model.UserRecord, error),
) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		WriteError(w, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	record, err := call(r.Context(), userID)
	if err != nil {
		h.logger.Error("Tasks handler: "+op+" failed", "user_id", userID, "error", err.Error())
		WriteError(w, err)
		return
	}

	WriteJSON(w, status, toRecord(record))
}

func toTasks(tasks []model.Task) []*apiv1.Task {
	out := make([]*apiv1.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, &apiv1.Task{Id: t.ID, Task: t.Text, Completed: t.Completed})
	}
	return out
}

func toRecord(record model.UserRecord) apiv1.Record {
	return apiv1.Record{
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Tasks:     toTasks(record.Tasks),
		Version:   record.Version,
	}
}
