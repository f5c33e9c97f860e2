package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskmanager/internal/apierrors"
	"github.com/dtroode/taskmanager/internal/mocks"
	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/testutil"
)

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := mocks.NewTokenManager(t)
	store := mocks.NewRefreshTokenStore(t)

	manager.On("GenerateAccessToken", userID).Return("access", nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh", "jti-1", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.JTI == "jti-1" && rt.UserID == userID &&
			assert.ObjectsAreEqual(hashRefresh("refresh"), rt.TokenHash) &&
			rt.RotatedFromJTI == nil
	})).Return(nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	access, refresh, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "access", access)
	assert.Equal(t, "refresh", refresh)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := mocks.NewTokenManager(t)
	store := mocks.NewRefreshTokenStore(t)

	manager.On("GenerateAccessToken", userID).Return("", assert.AnError).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	_, _, err := svc.Issue(ctx, userID)
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	jti := "jti-old"
	presented := "refresh-old"

	manager := mocks.NewTokenManager(t)
	store := mocks.NewRefreshTokenStore(t)

	manager.On("ParseRefreshToken", presented).Return(userID, jti, nil).Once()
	store.On("GetByJTI", ctx, jti).Return(model.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		TokenHash: hashRefresh(presented),
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()
	store.On("RevokeByJTI", ctx, jti).Return(nil).Once()
	manager.On("GenerateAccessToken", userID).Return("access-new", nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh-new", "jti-new", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.JTI == "jti-new" && rt.RotatedFromJTI != nil && *rt.RotatedFromJTI == jti
	})).Return(nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	access, refresh, err := svc.Refresh(ctx, presented)
	require.NoError(t, err)
	assert.Equal(t, "access-new", access)
	assert.Equal(t, "refresh-new", refresh)
}

func TestTokenService_Refresh_Rejected(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	jti := "jti"
	presented := "refresh"
	now := time.Now()

	tests := []struct {
		name   string
		stored model.RefreshToken
		setup  func(store *mocks.RefreshTokenStore)
	}{
		{
			name: "revoked",
			stored: model.RefreshToken{
				JTI: jti, UserID: userID, TokenHash: hashRefresh(presented),
				ExpiresAt: now.Add(time.Hour), RevokedAt: &now,
			},
		},
		{
			name: "expired",
			stored: model.RefreshToken{
				JTI: jti, UserID: userID, TokenHash: hashRefresh(presented),
				ExpiresAt: now.Add(-time.Minute),
			},
		},
		{
			name: "mismatch revokes every session of the user",
			stored: model.RefreshToken{
				JTI: jti, UserID: userID, TokenHash: hashRefresh("other"),
				ExpiresAt: now.Add(time.Hour),
			},
			setup: func(store *mocks.RefreshTokenStore) {
				store.On("RevokeAllByUser", ctx, userID).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := mocks.NewTokenManager(t)
			store := mocks.NewRefreshTokenStore(t)

			manager.On("ParseRefreshToken", presented).Return(userID, jti, nil).Once()
			store.On("GetByJTI", ctx, jti).Return(tt.stored, nil).Once()
			if tt.setup != nil {
				tt.setup(store)
			}

			svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

			_, _, err := svc.Refresh(ctx, presented)
			require.Error(t, err)
			assert.Equal(t, apierrors.MsgInvalidToken, apierrors.From(err).Message)
		})
	}
}

func TestTokenService_Refresh_UnknownJTI(t *testing.T) {
	ctx := context.Background()

	manager := mocks.NewTokenManager(t)
	store := mocks.NewRefreshTokenStore(t)

	manager.On("ParseRefreshToken", "refresh").Return(uuid.New(), "jti", nil).Once()
	store.On("GetByJTI", ctx, "jti").Return(model.RefreshToken{}, model.ErrNotFound).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	_, _, err := svc.Refresh(ctx, "refresh")
	assert.Equal(t, apierrors.MsgInvalidToken, apierrors.From(err).Message)
}

func TestTokenService_Refresh_Malformed(t *testing.T) {
	manager := mocks.NewTokenManager(t)
	store := mocks.NewRefreshTokenStore(t)

	manager.On("ParseRefreshToken", "garbage").Return(uuid.Nil, "", assert.AnError).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	_, _, err := svc.Refresh(context.Background(), "garbage")
	assert.Equal(t, apierrors.MsgInvalidToken, apierrors.From(err).Message)
}

func TestTokenService_RevokeByToken(t *testing.T) {
	ctx := context.Background()

	manager := mocks.NewTokenManager(t)
	store := mocks.NewRefreshTokenStore(t)

	manager.On("ParseRefreshToken", "refresh").Return(uuid.New(), "jti", nil).Once()
	store.On("RevokeByJTI", ctx, "jti").Return(nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	require.NoError(t, svc.RevokeByToken(ctx, "refresh"))
}

func TestTokenService_GetUserID(t *testing.T) {
	manager := mocks.NewTokenManager(t)
	store := mocks.NewRefreshTokenStore(t)

	u := uuid.New()
	manager.On("ParseAccessToken", "access").Return(u, nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	got, err := svc.GetUserID(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestTokenService_RevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := mocks.NewTokenManager(t)
	store := mocks.NewRefreshTokenStore(t)

	store.On("RevokeAllByUser", ctx, userID).Return(nil).Once()
	store.On("RevokeAllByUser", ctx, userID).Return(assert.AnError).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	require.NoError(t, svc.RevokeAllForUser(ctx, userID))
	require.Error(t, svc.RevokeAllForUser(ctx, userID))
}
