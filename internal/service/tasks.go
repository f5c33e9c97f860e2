package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/taskmanager/internal/apierrors"
	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/tasklist"
)

// TasksOptions tune the task service.
type TasksOptions struct {
	Strategy   model.WriteStrategy
	MaxRetries int
}

// Tasks manages the task list stored in each user's record.
type Tasks struct {
	store  model.RecordStore
	opts   TasksOptions
	logger *logger.Logger
}

func NewTasks(store model.RecordStore, opts TasksOptions, logger *logger.Logger) *Tasks {
	if opts.Strategy == "" {
		opts.Strategy = model.WriteStrategyCAS
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Tasks{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// GetRecord returns the user's record. Tasks stored without an ID get one,
// and the IDs are written back so later operations can address them.
func (s *Tasks) GetRecord(ctx context.Context, userID uuid.UUID) (model.UserRecord, error) {
	for attempt := 0; ; attempt++ {
		record, err := s.store.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.UserRecord{}, apierrors.NewErrRecordNotFound()
			}
			s.logger.Error("Tasks service: failed to get record",
				"user_id", userID,
				"error", err.Error())
			return model.UserRecord{}, fmt.Errorf("failed to get record: %w", err)
		}

		tasks, changed := tasklist.AssignIDs(record.Tasks)
		if !changed {
			record.Tasks = tasks
			return record, nil
		}

		updated, err := s.store.ReplaceTasks(ctx, userID, tasks, record.Version)
		if !errors.Is(err, model.ErrVersionConflict) {
			return s.written(updated, err, userID, "assign ids to")
		}
		if attempt >= s.opts.MaxRetries {
			return model.UserRecord{}, apierrors.NewErrConcurrentUpdate()
		}
	}
}

func (s *Tasks) ListTasks(ctx context.Context, userID uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	record, err := s.GetRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tasklist.Filter(record.Tasks, filter), nil
}

func (s *Tasks) AddTask(ctx context.Context, userID uuid.UUID, text string) (model.UserRecord, error) {
	if text == "" {
		return model.UserRecord{}, apierrors.NewErrInvalidArgument(apierrors.MsgTaskTextRequired)
	}
	task := tasklist.New(text)

	if s.opts.Strategy == model.WriteStrategyLegacy {
		record, err := s.store.AppendTask(ctx, userID, task)
		return s.written(record, err, userID, "add")
	}

	return s.mutate(ctx, userID, "add", func(tasks []model.Task) ([]model.Task, error) {
		return tasklist.Append(tasks, task), nil
	})
}

func (s *Tasks) DeleteTask(ctx context.Context, userID uuid.UUID, taskID string) (model.UserRecord, error) {
	if s.opts.Strategy == model.WriteStrategyLegacy {
		task, err := s.find(ctx, userID, taskID)
		if err != nil {
			return model.UserRecord{}, err
		}
		record, err := s.store.RemoveTask(ctx, userID, task)
		return s.written(record, err, userID, "delete")
	}

	return s.mutate(ctx, userID, "delete", func(tasks []model.Task) ([]model.Task, error) {
		return byID(tasklist.Remove(tasks, taskID))
	})
}

func (s *Tasks) ToggleTask(ctx context.Context, userID uuid.UUID, taskID string) (model.UserRecord, error) {
	if s.opts.Strategy == model.WriteStrategyLegacy {
		return s.replaceByText(ctx, userID, taskID, "toggle", func(tasks []model.Task, task model.Task) []model.Task {
			return tasklist.ToggleText(tasks, task.Text)
		})
	}

	return s.mutate(ctx, userID, "toggle", func(tasks []model.Task) ([]model.Task, error) {
		return byID(tasklist.Toggle(tasks, taskID))
	})
}

func (s *Tasks) UpdateTask(ctx context.Context, userID uuid.UUID, taskID, text string) (model.UserRecord, error) {
	if text == "" {
		return model.UserRecord{}, apierrors.NewErrInvalidArgument(apierrors.MsgTaskTextRequired)
	}

	if s.opts.Strategy == model.WriteStrategyLegacy {
		return s.replaceByText(ctx, userID, taskID, "update", func(tasks []model.Task, task model.Task) []model.Task {
			return tasklist.RenameText(tasks, task.Text, text)
		})
	}

	return s.mutate(ctx, userID, "update", func(tasks []model.Task) ([]model.Task, error) {
		return byID(tasklist.Rename(tasks, taskID, text))
	})
}

// mutate applies fn to the current list and writes the result back guarded
// by the version read. On a conflict the record is re-read and fn applied
// again, at most MaxRetries more times.
func (s *Tasks) mutate(ctx context.Context, userID uuid.UUID, op string, fn func([]model.Task) ([]model.Task, error)) (model.UserRecord, error) {
	for attempt := 0; ; attempt++ {
		record, err := s.GetRecord(ctx, userID)
		if err != nil {
			return model.UserRecord{}, err
		}

		tasks, err := fn(record.Tasks)
		if err != nil {
			return model.UserRecord{}, err
		}

		updated, err := s.store.ReplaceTasks(ctx, userID, tasks, record.Version)
		if !errors.Is(err, model.ErrVersionConflict) {
			return s.written(updated, err, userID, op)
		}

		if attempt >= s.opts.MaxRetries {
			s.logger.Warn("Tasks service: giving up after version conflicts",
				"user_id", userID,
				"op", op,
				"attempts", attempt+1)
			return model.UserRecord{}, apierrors.NewErrConcurrentUpdate()
		}
		if err := ctx.Err(); err != nil {
			return model.UserRecord{}, err
		}

		s.logger.Debug("Tasks service: version conflict, retrying",
			"user_id", userID,
			"op", op,
			"version", record.Version)
	}
}

func (s *Tasks) replaceByText(
	ctx context.Context,
	userID uuid.UUID,
	taskID, op string,
	fn func([]model.Task, model.Task) []model.Task,
) (model.UserRecord, error) {
	record, err := s.GetRecord(ctx, userID)
	if err != nil {
		return model.UserRecord{}, err
	}
	task, ok := tasklist.Find(record.Tasks, taskID)
	if !ok {
		return model.UserRecord{}, apierrors.NewErrTaskNotFound()
	}

	updated, err := s.store.ReplaceTasks(ctx, userID, fn(record.Tasks, task), model.AnyVersion)
	return s.written(updated, err, userID, op)
}

func (s *Tasks) find(ctx context.Context, userID uuid.UUID, taskID string) (model.Task, error) {
	record, err := s.GetRecord(ctx, userID)
	if err != nil {
		return model.Task{}, err
	}
	task, ok := tasklist.Find(record.Tasks, taskID)
	if !ok {
		return model.Task{}, apierrors.NewErrTaskNotFound()
	}
	return task, nil
}

func (s *Tasks) written(record model.UserRecord, err error, userID uuid.UUID, op string) (model.UserRecord, error) {
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.UserRecord{}, apierrors.NewErrRecordNotFound()
		}
		s.logger.Error("Tasks service: failed to write tasks",
			"user_id", userID,
			"op", op,
			"error", err.Error())
		return model.UserRecord{}, fmt.Errorf("failed to %s task: %w", op, err)
	}

	s.logger.Debug("Tasks service: tasks written",
		"user_id", userID,
		"op", op,
		"version", record.Version)

	record.Tasks = tasklist.Clone(record.Tasks)
	return record, nil
}

func byID(tasks []model.Task, found bool) ([]model.Task, error) {
	if !found {
		return nil, apierrors.NewErrTaskNotFound()
	}
	return tasks, nil
}
