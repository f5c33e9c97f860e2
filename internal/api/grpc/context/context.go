package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// userIDKey is the metadata key used to store and retrieve user ID in gRPC context.
const (
	userIDKey string = "user_id"
)

// Manager stores the authenticated user ID in incoming gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext sets the user ID in the incoming metadata of ctx.
// A user_id already present is overwritten.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(map[string]string{userIDKey: userID.String()})
	} else {
		md = md.Copy()
		md.Set(userIDKey, userID.String())
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetUserIDFromContext retrieves the user ID from incoming metadata.
// It reports false when the key is missing or is not a valid UUID.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	userIDs := md.Get(userIDKey)
	if len(userIDs) == 0 {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDs[0])
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}
