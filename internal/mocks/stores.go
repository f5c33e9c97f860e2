package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskmanager/internal/model"
)

type UserStore struct {
	mock.Mock
}

func NewUserStore(t testingT) *UserStore {
	m := &UserStore{}
	register(&m.Mock, t)
	return m
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type RecordStore struct {
	mock.Mock
}

func NewRecordStore(t testingT) *RecordStore {
	m := &RecordStore{}
	register(&m.Mock, t)
	return m
}

func (m *RecordStore) Create(ctx context.Context, record model.UserRecord) (model.UserRecord, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

func (m *RecordStore) Get(ctx context.Context, userID uuid.UUID) (model.UserRecord, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

func (m *RecordStore) ReplaceTasks(ctx context.Context, userID uuid.UUID, tasks []model.Task, expectedVersion int64) (model.UserRecord, error) {
	args := m.Called(ctx, userID, tasks, expectedVersion)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

func (m *RecordStore) AppendTask(ctx context.Context, userID uuid.UUID, task model.Task) (model.UserRecord, error) {
	args := m.Called(ctx, userID, task)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

func (m *RecordStore) RemoveTask(ctx context.Context, userID uuid.UUID, task model.Task) (model.UserRecord, error) {
	args := m.Called(ctx, userID, task)
	return args.Get(0).(model.UserRecord), args.Error(1)
}

type RefreshTokenStore struct {
	mock.Mock
}

func NewRefreshTokenStore(t testingT) *RefreshTokenStore {
	m := &RefreshTokenStore{}
	register(&m.Mock, t)
	return m
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	return m.Called(ctx, jti).Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type VerificationStore struct {
	mock.Mock
}

func NewVerificationStore(t testingT) *VerificationStore {
	m := &VerificationStore{}
	register(&m.Mock, t)
	return m
}

func (m *VerificationStore) Create(ctx context.Context, token model.VerificationToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *VerificationStore) Consume(ctx context.Context, token string, now time.Time) (model.VerificationToken, error) {
	args := m.Called(ctx, token, now)
	return args.Get(0).(model.VerificationToken), args.Error(1)
}

type Storage struct {
	mock.Mock
}

func NewStorage(t testingT) *Storage {
	m := &Storage{}
	register(&m.Mock, t)
	return m
}

func (m *Storage) Put(ctx context.Context, key, contentType string, data []byte) error {
	return m.Called(ctx, key, contentType, data).Error(0)
}

func (m *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
