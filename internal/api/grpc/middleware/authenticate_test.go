package middleware

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/taskmanager/internal/apierrors"
	"github.com/dtroode/taskmanager/internal/mocks"
	"github.com/dtroode/taskmanager/internal/testutil"
)

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		mdAuthHeader   string
		tokenSvcUserID uuid.UUID
		tokenSvcErr    error
		wantMessage    string
		wantErr        bool
	}{
		{
			name:        "missing authorization header",
			wantMessage: apierrors.MsgMissingToken,
			wantErr:     true,
		},
		{
			name:         "invalid token",
			mdAuthHeader: "Bearer invalid",
			tokenSvcErr:  assert.AnError,
			wantMessage:  apierrors.MsgInvalidToken,
			wantErr:      true,
		},
		{
			name:           "nil user id from token",
			mdAuthHeader:   "Bearer token",
			tokenSvcUserID: uuid.Nil,
			wantMessage:    apierrors.MsgInvalidToken,
			wantErr:        true,
		},
		{
			name:           "valid token",
			mdAuthHeader:   "Bearer token",
			tokenSvcUserID: uuid.New(),
		},
		{
			name:           "lowercase scheme",
			mdAuthHeader:   "bearer token",
			tokenSvcUserID: uuid.New(),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lg := testutil.MakeNoopLogger()
			cm := mocks.NewContextManager(t)

			if !tt.wantErr {
				cm.On("SetUserIDToContext", mock.Anything, tt.tokenSvcUserID).Return(context.Background())
			}

			svc := mocks.NewTokenService(t)
			if tt.mdAuthHeader != "" {
				svc.On("GetUserID", mock.Anything, mock.AnythingOfType("string")).Return(tt.tokenSvcUserID, tt.tokenSvcErr)
			}
			m := NewAuthenticate(svc, cm, lg)

			ctx := context.Background()
			if tt.mdAuthHeader != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.mdAuthHeader))
			}

			newCtx, err := m.AuthFunc(ctx)

			if tt.wantErr {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok)
				assert.Equal(t, codes.Unauthenticated, st.Code())
				assert.Equal(t, tt.wantMessage, st.Message())
				assert.Nil(t, newCtx)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, newCtx)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("BEARER  abc "))
	assert.Equal(t, "abc", BearerToken("abc"))
	assert.Equal(t, "", BearerToken(""))
}
