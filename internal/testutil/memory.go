package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/tasklist"
)

var (
	_ model.UserStore         = (*MemoryUserStore)(nil)
	_ model.RecordStore       = (*MemoryRecordStore)(nil)
	_ model.VerificationStore = (*MemoryVerificationStore)(nil)
	_ model.RefreshTokenStore = (*MemoryRefreshTokenStore)(nil)
	_ model.Mailer            = (*RecordingMailer)(nil)
)

// MemoryUserStore is an in-memory model.UserStore.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]model.User)}
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *MemoryUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return model.User{}, model.ErrAlreadyExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = user
	return user, nil
}

func (s *MemoryUserStore) MarkVerified(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.ErrNotFound
	}
	u.EmailVerified = true
	s.users[id] = u
	return nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

// MemoryRecordStore is an in-memory model.RecordStore with the same
// version and array semantics as the database stores.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]model.UserRecord
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[uuid.UUID]model.UserRecord)}
}

func (s *MemoryRecordStore) Create(_ context.Context, record model.UserRecord) (model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.UserID]; ok {
		return model.UserRecord{}, model.ErrAlreadyExists
	}
	now := time.Now()
	record.Tasks = tasklist.Clone(record.Tasks)
	record.Version = 1
	record.CreatedAt, record.UpdatedAt = now, now
	s.records[record.UserID] = record
	return s.copyOf(record), nil
}

func (s *MemoryRecordStore) Get(_ context.Context, userID uuid.UUID) (model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return model.UserRecord{}, model.ErrNotFound
	}
	return s.copyOf(record), nil
}

func (s *MemoryRecordStore) ReplaceTasks(_ context.Context, userID uuid.UUID, tasks []model.Task, expectedVersion int64) (model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return model.UserRecord{}, model.ErrNotFound
	}
	if expectedVersion != model.AnyVersion && record.Version != expectedVersion {
		return model.UserRecord{}, model.ErrVersionConflict
	}
	return s.write(record, tasks), nil
}

func (s *MemoryRecordStore) AppendTask(_ context.Context, userID uuid.UUID, task model.Task) (model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return model.UserRecord{}, model.ErrNotFound
	}
	tasks := record.Tasks
	if !tasklist.ContainsValue(tasks, task) {
		tasks = tasklist.Append(tasks, task)
	}
	return s.write(record, tasks), nil
}

func (s *MemoryRecordStore) RemoveTask(_ context.Context, userID uuid.UUID, task model.Task) (model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return model.UserRecord{}, model.ErrNotFound
	}
	return s.write(record, tasklist.RemoveValue(record.Tasks, task)), nil
}

func (s *MemoryRecordStore) write(record model.UserRecord, tasks []model.Task) model.UserRecord {
	record.Tasks = tasklist.Clone(tasks)
	record.Version++
	record.UpdatedAt = time.Now()
	s.records[record.UserID] = record
	return s.copyOf(record)
}

func (s *MemoryRecordStore) copyOf(record model.UserRecord) model.UserRecord {
	record.Tasks = tasklist.Clone(record.Tasks)
	return record
}

// MemoryVerificationStore is an in-memory model.VerificationStore.
type MemoryVerificationStore struct {
	mu     sync.Mutex
	tokens map[string]model.VerificationToken
}

func NewMemoryVerificationStore() *MemoryVerificationStore {
	return &MemoryVerificationStore{tokens: make(map[string]model.VerificationToken)}
}

func (s *MemoryVerificationStore) Create(_ context.Context, token model.VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token.Token]; ok {
		return model.ErrAlreadyExists
	}
	s.tokens[token.Token] = token
	return nil
}

func (s *MemoryVerificationStore) Consume(_ context.Context, token string, now time.Time) (model.VerificationToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vt, ok := s.tokens[token]
	switch {
	case !ok:
		return model.VerificationToken{}, model.ErrNotFound
	case vt.ConsumedAt != nil:
		return model.VerificationToken{}, model.ErrVerificationConsumed
	case !now.Before(vt.ExpiresAt):
		return model.VerificationToken{}, model.ErrVerificationExpired
	}
	vt.ConsumedAt = &now
	s.tokens[token] = vt
	return vt, nil
}

// MemoryRefreshTokenStore is an in-memory model.RefreshTokenStore.
type MemoryRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
}

func NewMemoryRefreshTokenStore() *MemoryRefreshTokenStore {
	return &MemoryRefreshTokenStore{tokens: make(map[string]model.RefreshToken)}
}

func (s *MemoryRefreshTokenStore) Create(_ context.Context, token model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.JTI] = token
	return nil
}

func (s *MemoryRefreshTokenStore) GetByJTI(_ context.Context, jti string) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.tokens[jti]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return rt, nil
}

func (s *MemoryRefreshTokenStore) RevokeByJTI(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rt, ok := s.tokens[jti]; ok && rt.RevokedAt == nil {
		now := time.Now()
		rt.RevokedAt = &now
		s.tokens[jti] = rt
	}
	return nil
}

func (s *MemoryRefreshTokenStore) RevokeAllByUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for jti, rt := range s.tokens {
		if rt.UserID == userID && rt.RevokedAt == nil {
			rt.RevokedAt = &now
			s.tokens[jti] = rt
		}
	}
	return nil
}

// RecordingMailer keeps every message it is asked to send.
type RecordingMailer struct {
	mu       sync.Mutex
	messages []model.VerificationMessage
	Err      error
}

func (m *RecordingMailer) SendVerification(_ context.Context, msg model.VerificationMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.messages = append(m.messages, msg)
	return nil
}

// Messages returns the messages sent so far.
func (m *RecordingMailer) Messages() []model.VerificationMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.VerificationMessage(nil), m.messages...)
}
