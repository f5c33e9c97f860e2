package handler

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/taskmanager/internal/api/grpc/apiv1"
	grpccontext "github.com/dtroode/taskmanager/internal/api/grpc/context"
	"github.com/dtroode/taskmanager/internal/apierrors"
	"github.com/dtroode/taskmanager/internal/mocks"
	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/testutil"
)

func authedContext(userID uuid.UUID) context.Context {
	return grpccontext.NewManager().SetUserIDToContext(context.Background(), userID)
}

func sampleRecord() model.UserRecord {
	return model.UserRecord{
		FirstName: "Alice",
		LastName:  "Doe",
		Tasks:     []model.Task{{ID: "t1", Text: "buy milk", Completed: true}},
		Version:   3,
	}
}

func TestTasks_Unauthenticated(t *testing.T) {
	t.Parallel()

	h := NewTasks(mocks.NewTasksService(t), grpccontext.NewManager(), testutil.MakeNoopLogger())

	_, err := h.GetRecord(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.AddTask(context.Background(), &apiv1.AddTaskRequest{Task: "x"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestTasks_GetRecord(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := mocks.NewTasksService(t)
	svc.On("GetRecord", mock.Anything, userID).Return(sampleRecord(), nil)

	h := NewTasks(svc, grpccontext.NewManager(), testutil.MakeNoopLogger())
	out, err := h.GetRecord(authedContext(userID), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, &apiv1.Record{
		FirstName: "Alice",
		LastName:  "Doe",
		Tasks:     []*apiv1.Task{{Id: "t1", Task: "buy milk", Completed: true}},
		Version:   3,
	}, out)
}

func TestTasks_GetRecord_NotFound(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := mocks.NewTasksService(t)
	svc.On("GetRecord", mock.Anything, userID).Return(model.UserRecord{}, apierrors.NewErrRecordNotFound())

	h := NewTasks(svc, grpccontext.NewManager(), testutil.MakeNoopLogger())
	_, err := h.GetRecord(authedContext(userID), &emptypb.Empty{})
	st, _ := status.FromError(err)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, "No user data found", st.Message())
}

func TestTasks_ListTasks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := mocks.NewTasksService(t)
	svc.On("ListTasks", mock.Anything, userID, model.TaskFilterCompleted).
		Return([]model.Task{{ID: "t1", Text: "buy milk", Completed: true}}, nil)

	h := NewTasks(svc, grpccontext.NewManager(), testutil.MakeNoopLogger())

	out, err := h.ListTasks(authedContext(userID), &apiv1.ListTasksRequest{Filter: "completed"})
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "t1", out.Tasks[0].Id)

	_, err = h.ListTasks(authedContext(userID), &apiv1.ListTasksRequest{Filter: "someday"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestTasks_Mutations(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	record := sampleRecord()

	tests := []struct {
		name  string
		setup func(svc *mocks.TasksService)
		call  func(h *Tasks, ctx context.Context) (*apiv1.Record, error)
	}{
		{
			name: "add",
			setup: func(svc *mocks.TasksService) {
				svc.On("AddTask", mock.Anything, userID, "buy milk").Return(record, nil)
			},
			call: func(h *Tasks, ctx context.Context) (*apiv1.Record, error) {
				return h.AddTask(ctx, &apiv1.AddTaskRequest{Task: "buy milk"})
			},
		},
		{
			name: "delete",
			setup: func(svc *mocks.TasksService) {
				svc.On("DeleteTask", mock.Anything, userID, "t9").Return(record, nil)
			},
			call: func(h *Tasks, ctx context.Context) (*apiv1.Record, error) {
				return h.DeleteTask(ctx, &apiv1.DeleteTaskRequest{Id: "t9"})
			},
		},
		{
			name: "toggle",
			setup: func(svc *mocks.TasksService) {
				svc.On("ToggleTask", mock.Anything, userID, "t1").Return(record, nil)
			},
			call: func(h *Tasks, ctx context.Context) (*apiv1.Record, error) {
				return h.ToggleTask(ctx, &apiv1.ToggleTaskRequest{Id: "t1"})
			},
		},
		{
			name: "update",
			setup: func(svc *mocks.TasksService) {
				svc.On("UpdateTask", mock.Anything, userID, "t1", "buy oat milk").Return(record, nil)
			},
			call: func(h *Tasks, ctx context.Context) (*apiv1.Record, error) {
				return h.UpdateTask(ctx, &apiv1.UpdateTaskRequest{Id: "t1", Task: "buy oat milk"})
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewTasksService(t)
			tt.setup(svc)

			h := NewTasks(svc, grpccontext.NewManager(), testutil.MakeNoopLogger())
			out, err := tt.call(h, authedContext(userID))
			require.NoError(t, err)
			assert.Equal(t, int64(3), out.Version)
			assert.Len(t, out.Tasks, 1)
		})
	}
}

func TestTasks_MutationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode codes.Code
	}{
		{name: "unknown task", err: apierrors.NewErrTaskNotFound(), wantCode: codes.NotFound},
		{name: "conflict", err: apierrors.NewErrConcurrentUpdate(), wantCode: codes.Aborted},
		{name: "empty text", err: apierrors.NewErrInvalidArgument(apierrors.MsgTaskTextRequired), wantCode: codes.InvalidArgument},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userID := uuid.New()
			svc := mocks.NewTasksService(t)
			svc.On("ToggleTask", mock.Anything, userID, "t1").Return(model.UserRecord{}, tt.err)

			h := NewTasks(svc, grpccontext.NewManager(), testutil.MakeNoopLogger())
			out, err := h.ToggleTask(authedContext(userID), &apiv1.ToggleTaskRequest{Id: "t1"})
			assert.Nil(t, out)
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}
