//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/taskmanager/internal/model"
	repo "github.com/dtroode/taskmanager/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "taskmanager_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/taskmanager_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConnection(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createUser(t *testing.T, ur *repo.UserRepository) model.User {
	t.Helper()
	u, err := ur.Create(context.Background(), model.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: []byte("hash"),
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	ur := repo.NewUserRepository(connect(t))

	u := createUser(t, ur)
	require.False(t, u.EmailVerified)

	byEmail, err := ur.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = ur.Create(ctx, model.User{ID: uuid.New(), Email: u.Email, PasswordHash: []byte("x")})
	require.ErrorIs(t, err, model.ErrAlreadyExists)

	require.NoError(t, ur.MarkVerified(ctx, u.ID))
	byID, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, byID.EmailVerified)

	require.ErrorIs(t, ur.MarkVerified(ctx, uuid.New()), model.ErrNotFound)

	require.NoError(t, ur.Delete(ctx, u.ID))
	_, err = ur.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestRecordRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)
	rr := repo.NewRecordRepository(conn)

	owner := createUser(t, ur)
	created, err := rr.Create(ctx, model.UserRecord{UserID: owner.ID, FirstName: "Alice", LastName: "Doe"})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.Version)
	require.Empty(t, created.Tasks)

	_, err = rr.Create(ctx, model.UserRecord{UserID: owner.ID, FirstName: "Alice", LastName: "Doe"})
	require.ErrorIs(t, err, model.ErrAlreadyExists)

	t.Run("replace with version check", func(t *testing.T) {
		tasks := []model.Task{{ID: "1", Text: "buy milk"}}
		updated, err := rr.ReplaceTasks(ctx, owner.ID, tasks, created.Version)
		require.NoError(t, err)
		require.Equal(t, created.Version+1, updated.Version)
		require.Equal(t, tasks, updated.Tasks)

		_, err = rr.ReplaceTasks(ctx, owner.ID, nil, created.Version)
		require.ErrorIs(t, err, model.ErrVersionConflict)

		_, err = rr.ReplaceTasks(ctx, uuid.New(), nil, 1)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("append is a set union", func(t *testing.T) {
		task := model.Task{ID: "2", Text: "walk dog"}
		first, err := rr.AppendTask(ctx, owner.ID, task)
		require.NoError(t, err)
		second, err := rr.AppendTask(ctx, owner.ID, task)
		require.NoError(t, err)
		require.Len(t, second.Tasks, len(first.Tasks))
		require.Equal(t, task, second.Tasks[len(second.Tasks)-1])
	})

	t.Run("remove drops equal entries", func(t *testing.T) {
		dup := model.Task{Text: "dup"}
		_, err := rr.ReplaceTasks(ctx, owner.ID, []model.Task{dup, {ID: "k", Text: "keep"}, dup}, model.AnyVersion)
		require.NoError(t, err)

		after, err := rr.RemoveTask(ctx, owner.ID, dup)
		require.NoError(t, err)
		require.Equal(t, []model.Task{{ID: "k", Text: "keep"}}, after.Tasks)

		empty, err := rr.RemoveTask(ctx, owner.ID, model.Task{ID: "k", Text: "keep"})
		require.NoError(t, err)
		require.NotNil(t, empty.Tasks)
		require.Empty(t, empty.Tasks)
	})

	t.Run("record goes with its user", func(t *testing.T) {
		require.NoError(t, ur.Delete(ctx, owner.ID))
		_, err := rr.Get(ctx, owner.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestVerificationRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)
	vr := repo.NewVerificationRepository(conn)

	owner := createUser(t, ur)
	now := time.Now().UTC()

	require.NoError(t, vr.Create(ctx, model.VerificationToken{Token: "fresh", UserID: owner.ID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, vr.Create(ctx, model.VerificationToken{Token: "stale", UserID: owner.ID, ExpiresAt: now.Add(-time.Hour)}))

	consumed, err := vr.Consume(ctx, "fresh", now)
	require.NoError(t, err)
	require.Equal(t, owner.ID, consumed.UserID)
	require.NotNil(t, consumed.ConsumedAt)

	_, err = vr.Consume(ctx, "fresh", now)
	require.ErrorIs(t, err, model.ErrVerificationConsumed)

	_, err = vr.Consume(ctx, "stale", now)
	require.ErrorIs(t, err, model.ErrVerificationExpired)

	_, err = vr.Consume(ctx, "unknown", now)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestRefreshTokenRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)
	tr := repo.NewRefreshTokenRepository(conn)

	owner := createUser(t, ur)
	jti := uuid.NewString()
	require.NoError(t, tr.Create(ctx, model.RefreshToken{
		JTI:       jti,
		UserID:    owner.ID,
		TokenHash: []byte("h"),
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	got, err := tr.GetByJTI(ctx, jti)
	require.NoError(t, err)
	require.Nil(t, got.RevokedAt)

	require.NoError(t, tr.RevokeAllByUser(ctx, owner.ID))
	got, err = tr.GetByJTI(ctx, jti)
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)

	_, err = tr.GetByJTI(ctx, "missing")
	require.ErrorIs(t, err, model.ErrNotFound)
}
