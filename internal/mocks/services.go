package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskmanager/internal/model"
)

type AuthService struct {
	mock.Mock
}

func NewAuthService(t testingT) *AuthService {
	m := &AuthService{}
	register(&m.Mock, t)
	return m
}

func (m *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (model.SignUpResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.SignUpResult), args.Error(1)
}

func (m *AuthService) VerifyEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *AuthService) ResendVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (model.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.Session), args.Error(1)
}

type TokenService struct {
	mock.Mock
}

func NewTokenService(t testingT) *TokenService {
	m := &TokenService{}
	register(&m.Mock, t)
	return m
}

func (m *TokenService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenService) RevokeByToken(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type TasksService struct {
	mock.Mock
}

func NewTasksService(t testingT) *TasksService {
	m := &TasksService{}
	register(&m.Mock, t)
	return m
}

func (m *TasksService) GetRecord(ctx context.Context, userID uuid.UUID) (model.UserRecord, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

func (m *TasksService) ListTasks(ctx context.Context, userID uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, userID, filter)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *TasksService) AddTask(ctx context.Context, userID uuid.UUID, text string) (model.UserRecord, error) {
	args := m.Called(ctx, userID, text)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

func (m *TasksService) DeleteTask(ctx context.Context, userID uuid.UUID, taskID string) (model.UserRecord, error) {
	args := m.Called(ctx, userID, taskID)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

func (m *TasksService) ToggleTask(ctx context.Context, userID uuid.UUID, taskID string) (model.UserRecord, error) {
	args := m.Called(ctx, userID, taskID)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

func (m *TasksService) UpdateTask(ctx context.Context, userID uuid.UUID, taskID, text string) (model.UserRecord, error) {
	args := m.Called(ctx, userID, taskID, text)
	return args.Get(0).(model.UserRecord), args.Error(1)
}
