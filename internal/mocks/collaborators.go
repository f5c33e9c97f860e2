package mocks

import (
	"context"
	"net"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskmanager/internal/model"
)

type TokenManager struct {
	mock.Mock
}

func NewTokenManager(t testingT) *TokenManager {
	m := &TokenManager{}
	register(&m.Mock, t)
	return m
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

type PasswordHasher struct {
	mock.Mock
}

func NewPasswordHasher(t testingT) *PasswordHasher {
	m := &PasswordHasher{}
	register(&m.Mock, t)
	return m
}

func (m *PasswordHasher) Hash(password string) ([]byte, error) {
	args := m.Called(password)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *PasswordHasher) Compare(hash []byte, password string) error {
	return m.Called(hash, password).Error(0)
}

type Mailer struct {
	mock.Mock
}

func NewMailer(t testingT) *Mailer {
	m := &Mailer{}
	register(&m.Mock, t)
	return m
}

func (m *Mailer) SendVerification(ctx context.Context, msg model.VerificationMessage) error {
	return m.Called(ctx, msg).Error(0)
}

type ContextManager struct {
	mock.Mock
}

func NewContextManager(t testingT) *ContextManager {
	m := &ContextManager{}
	register(&m.Mock, t)
	return m
}

func (m *ContextManager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	args := m.Called(ctx, userID)
	return args.Get(0).(context.Context)
}

func (m *ContextManager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	args := m.Called(ctx)
	return args.Get(0).(uuid.UUID), args.Bool(1)
}

type SecurityLayer struct {
	mock.Mock
}

func NewSecurityLayer(t testingT) *SecurityLayer {
	m := &SecurityLayer{}
	register(&m.Mock, t)
	return m
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	args := m.Called(protocol, addr)
	l, _ := args.Get(0).(net.Listener)
	return l, args.Error(1)
}
