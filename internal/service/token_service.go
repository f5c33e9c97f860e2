package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskmanager/internal/apierrors"
	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/model"
)

// TokenService issues, rotates and revokes session tokens.
// It composes the TokenManager and RefreshTokenStore.
type TokenService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	logger  *logger.Logger
	now     func() time.Time
}

func NewTokenService(manager model.TokenManager, store model.RefreshTokenStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger, now: time.Now}
}

// Keep in sync with the token manager. Used for persistence only; the
// manager checks validity against the JWT claims.
const refreshTTL = 30 * 24 * time.Hour

func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (accessToken string, refreshToken string, err error) {
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.persistRefresh(ctx, userID, nil)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new pair issued.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (newAccess string, newRefresh string, err error) {
	userID, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		s.logger.Debug("Token service: refresh token rejected", "error", err.Error())
		return "", "", apierrors.NewErrInvalidAuthorizationToken()
	}

	rt, err := s.store.GetByJTI(ctx, jti)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", "", apierrors.NewErrInvalidAuthorizationToken()
		}
		return "", "", fmt.Errorf("get refresh: %w", err)
	}

	if err := validateStored(rt, hashRefresh(presentedRefresh), s.now()); err != nil {
		s.logger.Warn("Token service: refresh token rejected",
			"user_id", userID,
			"jti", jti,
			"error", err.Error())
		if errors.Is(err, model.ErrTokenMismatch) {
			// A mismatching token under a known jti means the jti leaked.
			if revokeErr := s.store.RevokeAllByUser(ctx, userID); revokeErr != nil {
				s.logger.Error("Token service: failed to revoke user tokens",
					"user_id", userID,
					"error", revokeErr.Error())
			}
		}
		return "", "", apierrors.NewErrInvalidAuthorizationToken()
	}

	if err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return "", "", fmt.Errorf("revoke old refresh: %w", err)
	}

	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("issue new access: %w", err)
	}

	rotatedFrom := rt.JTI
	refresh, err := s.persistRefresh(ctx, userID, &rotatedFrom)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

func (s *TokenService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	_, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return apierrors.NewErrInvalidAuthorizationToken()
	}
	return s.store.RevokeByJTI(ctx, jti)
}

func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

func (s *TokenService) GetUserID(_ context.Context, token string) (uuid.UUID, error) {
	return s.manager.ParseAccessToken(token)
}

func (s *TokenService) persistRefresh(ctx context.Context, userID uuid.UUID, rotatedFrom *string) (string, error) {
	refresh, jti, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return "", fmt.Errorf("issue refresh: %w", err)
	}

	now := s.now()
	rt := model.RefreshToken{
		ID:             uuid.New(),
		JTI:            jti,
		UserID:         userID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(refreshTTL),
		RotatedFromJTI: rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, rt); err != nil {
		return "", fmt.Errorf("persist refresh: %w", err)
	}

	return refresh, nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateStored(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	if rt.RevokedAt != nil {
		return model.ErrTokenRevoked
	}
	if now.After(rt.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if subtle.ConstantTimeCompare(rt.TokenHash, presentedHash) != 1 {
		return model.ErrTokenMismatch
	}
	return nil
}
