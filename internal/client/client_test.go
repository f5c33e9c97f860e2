package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskmanager/internal/client"
	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/testutil/apitest"
)

func newClient(t *testing.T, addr string, store *client.SessionStore) *client.Client {
	t.Helper()

	c, err := client.New(client.Options{Address: addr}, store)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func signUp(t *testing.T, c *client.Client) {
	t.Helper()

	_, err := c.SignUp(context.Background(), model.SignUpRequest{
		Email: "alice@example.com", Password: "pw123456", FirstName: "Alice", LastName: "Doe",
	})
	require.NoError(t, err)
}

func TestClient_LoginAndTasks(t *testing.T) {
	t.Parallel()

	srv := apitest.Start(t)
	store := client.NewSessionStore(t.TempDir())
	c := newClient(t, srv.Addr, store)
	ctx := context.Background()

	assert.False(t, c.Authenticated())
	_, err := c.GetRecord(ctx)
	assert.ErrorIs(t, err, client.ErrNoSession)

	signUp(t, c)

	_, err = c.Login(ctx, "alice@example.com", "nope-nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials.", err.Error())

	session, err := c.Login(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "Alice Doe", session.DisplayName())
	assert.True(t, c.Authenticated())

	rec, err := c.AddTask(ctx, "buy milk")
	require.NoError(t, err)
	require.Len(t, rec.Tasks, 1)

	rec, err = c.ToggleTask(ctx, rec.Tasks[0].ID)
	require.NoError(t, err)
	assert.True(t, rec.Tasks[0].Completed)

	_, err = c.DeleteTask(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, "task not found", err.Error())

	// A second client picks the saved session up.
	again := newClient(t, srv.Addr, store)
	rec, err = again.GetRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", rec.FirstName)
	assert.Len(t, rec.Tasks, 1)

	require.NoError(t, again.Logout(ctx))
	assert.False(t, again.Authenticated())
	_, err = store.Load()
	assert.ErrorIs(t, err, client.ErrNoSession)
}

func TestClient_RefreshesExpiredAccessToken(t *testing.T) {
	t.Parallel()

	srv := apitest.Start(t)
	store := client.NewSessionStore(t.TempDir())
	c := newClient(t, srv.Addr, store)
	ctx := context.Background()

	signUp(t, c)
	session, err := c.Login(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)

	stale := session
	stale.AccessToken = "expired"
	require.NoError(t, store.Save(stale))

	c2 := newClient(t, srv.Addr, store)
	rec, err := c2.GetRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Doe", rec.LastName)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.NotEqual(t, "expired", saved.AccessToken)
	assert.NotEqual(t, session.RefreshToken, saved.RefreshToken)
}

func TestClient_RejectedRefreshClearsSession(t *testing.T) {
	t.Parallel()

	srv := apitest.Start(t)
	store := client.NewSessionStore(t.TempDir())
	c := newClient(t, srv.Addr, store)
	ctx := context.Background()

	signUp(t, c)
	session, err := c.Login(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)

	stale := session
	stale.AccessToken = "expired"
	stale.RefreshToken = "revoked"
	require.NoError(t, store.Save(stale))

	c2 := newClient(t, srv.Addr, store)
	require.True(t, c2.Authenticated())

	_, err = c2.GetRecord(ctx)
	require.ErrorIs(t, err, client.ErrNoSession)
	assert.False(t, c2.Authenticated())

	_, err = store.Load()
	assert.ErrorIs(t, err, client.ErrNoSession)
}

func TestClient_IgnoresSessionForOtherServer(t *testing.T) {
	t.Parallel()

	store := client.NewSessionStore(t.TempDir())
	require.NoError(t, store.Save(client.Session{Server: "elsewhere:50051", AccessToken: "acc"}))

	c := newClient(t, "127.0.0.1:1", store)
	assert.False(t, c.Authenticated())
}
