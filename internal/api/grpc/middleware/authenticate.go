package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/taskmanager/internal/apierrors"
	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization metadata, validates the token and
// returns a context carrying the user ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = BearerToken(authHeaders[0])
		}
	}

	userID, authErr := m.authenticateUser(ctx, tokenString)
	if authErr != nil {
		return nil, status.Error(authErr.GRPCCode, authErr.Message)
	}

	return m.contextManager.SetUserIDToContext(ctx, userID), nil
}

// BearerToken strips the "Bearer " scheme from an authorization value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func (m *Authenticate) authenticateUser(ctx context.Context, tokenString string) (uuid.UUID, *apierrors.APIError) {
	if tokenString == "" {
		return uuid.Nil, apierrors.NewErrMissingAuthorizationToken()
	}

	userID, err := m.tokenService.GetUserID(ctx, tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected", "error", err.Error())
		return uuid.Nil, apierrors.NewErrInvalidAuthorizationToken()
	}

	if userID == uuid.Nil {
		return uuid.Nil, apierrors.NewErrInvalidAuthorizationToken()
	}

	return userID, nil
}
