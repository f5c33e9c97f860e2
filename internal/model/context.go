package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager stores and extracts the authenticated user ID
// for a transport-specific request context.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
