package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestManager_SetAndGetUserID(t *testing.T) {
	m := NewManager()
	uid := uuid.New()

	got, ok := m.GetUserIDFromContext(m.SetUserIDToContext(stdctx.Background(), uid))
	assert.True(t, ok)
	assert.Equal(t, uid, got)
}

func TestManager_GetUserID_Missing(t *testing.T) {
	m := NewManager()

	_, ok := m.GetUserIDFromContext(stdctx.Background())
	assert.False(t, ok)

	_, ok = m.GetUserIDFromContext(m.SetUserIDToContext(stdctx.Background(), uuid.Nil))
	assert.False(t, ok)
}
