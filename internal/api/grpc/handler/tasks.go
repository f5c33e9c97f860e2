package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/taskmanager/internal/api/grpc/apiv1"
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

// Tasks handles gRPC endpoints for the task list.
type Tasks struct {
	apiv1.UnimplementedTasksServer
	tasksService   TasksService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewTasks creates a new Tasks handler.
func NewTasks(tasksService TasksService, contextManager model.ContextManager, logger *logger.Logger) *Tasks {
	return &Tasks{
		tasksService:   tasksService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Tasks) GetRecord(ctx context.Context, _ *emptypb.Empty) (*apiv1.Record, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	record, err := h.tasksService.GetRecord(ctx, userID)
	if err != nil {
		h.logger.Error("Tasks handler: get record failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return toProtoRecord(record), nil
}

func (h *Tasks) ListTasks(ctx context.Context, req *apiv1.ListTasksRequest) (*apiv1.ListTasksResponse, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := tasklist.ParseFilter(req.Filter)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	tasks, err := h.tasksService.ListTasks(ctx, userID, filter)
	if err != nil {
		h.logger.Error("Tasks handler: list tasks failed",
			"user_id", userID,
			"filter", filter,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &apiv1.ListTasksResponse{Tasks: toProtoTasks(tasks)}, nil
}

func (h *Tasks) AddTask(ctx context.Context, req *apiv1.AddTaskRequest) (*apiv1.Record, error) {
	return h.mutate(ctx, "add task", func(userID uuid.UUID) (model.UserRecord, error) {
		return h.tasksService.AddTask(ctx, userID, req.Task)
	})
}

func (h *Tasks) DeleteTask(ctx context.Context, req *apiv1.DeleteTaskRequest) (*apiv1.Record, error) {
	return h.mutate(ctx, "delete task", func(userID uuid.UUID) (model.UserRecord, error) {
		return h.tasksService.DeleteTask(ctx, userID, req.Id)
	})
}

func (h *Tasks) ToggleTask(ctx context.Context, req *apiv1.ToggleTaskRequest) (*apiv1.Record, error) {
	return h.mutate(ctx, "toggle task", func(userID uuid.UUID) (model.UserRecord, error) {
		return h.tasksService.ToggleTask(ctx, userID, req.Id)
	})
}

func (h *Tasks) UpdateTask(ctx context.Context, req *apiv1.UpdateTaskRequest) (*apiv1.Record, error) {
	return h.mutate(ctx, "update task", func(userID uuid.UUID) (model.UserRecord, error) {
		return h.tasksService.UpdateTask(ctx, userID, req.Id, req.Task)
	})
}

func (h *Tasks) mutate(ctx context.Context, op string, call func(uuid.UUID) (model.UserRecord, error)) (*apiv1.Record, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	record, err := call(userID)
	if err != nil {
		h.logger.Error("Tasks handler: "+op+" failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Debug("Tasks handler: "+op+" completed",
		"user_id", userID,
		"version", record.Version)

	return toProtoRecord(record), nil
}

func (h *Tasks) userID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}
	return userID, nil
}
