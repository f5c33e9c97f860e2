package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/password"
	"github.com/dtroode/taskmanager/internal/testutil"
	"github.com/dtroode/taskmanager/internal/token"
)

func TestSignUpLoginAndTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	log := testutil.MakeNoopLogger()

	users := testutil.NewMemoryUserStore()
	records := testutil.NewMemoryRecordStore()
	mailer := &testutil.RecordingMailer{}

	auth := NewAuth(
		users,
		records,
		testutil.NewMemoryVerificationStore(),
		testutil.NewMemoryRefreshTokenStore(),
		token.NewJWT("secret"),
		password.NewBcrypt(4),
		mailer,
		AuthOptions{
			MinPasswordLength:    6,
			VerificationTTL:      time.Hour,
			RequireVerifiedEmail: true,
			VerificationURL:      "http://localhost:8080/v1/auth/verify",
		},
		log,
	)
	tasks := NewTasks(records, TasksOptions{Strategy: model.WriteStrategyCAS, MaxRetries: 3}, log)

	res, err := auth.SignUp(ctx, model.SignUpRequest{
		Email:     "alice@example.com",
		Password:  "pw123456",
		FirstName: "Alice",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	require.True(t, res.VerificationSent)

	_, err = auth.Login(ctx, "alice@example.com", "pw123456")
	require.Error(t, err, "unverified login must fail")

	msgs := mailer.Messages()
	require.Len(t, msgs, 1)
	link, err := url.Parse(msgs[0].Link)
	require.NoError(t, err)
	require.NoError(t, auth.VerifyEmail(ctx, link.Query().Get("token")))

	session, err := auth.Login(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "Alice", session.FirstName)
	assert.Equal(t, "Doe", session.LastName)
	assert.Empty(t, session.Tasks)
	assert.NotEmpty(t, session.AccessToken)

	rec, err := tasks.AddTask(ctx, session.UserID, "buy milk")
	require.NoError(t, err)
	require.Len(t, rec.Tasks, 1)
	id := rec.Tasks[0].ID

	rec, err = tasks.ToggleTask(ctx, session.UserID, id)
	require.NoError(t, err)
	assert.True(t, rec.Tasks[0].Completed)

	rec, err = tasks.UpdateTask(ctx, session.UserID, id, "buy oat milk")
	require.NoError(t, err)
	assert.Equal(t, []model.Task{{ID: id, Text: "buy oat milk", Completed: true}}, rec.Tasks)

	rec, err = tasks.DeleteTask(ctx, session.UserID, id)
	require.NoError(t, err)
	assert.Empty(t, rec.Tasks)
}
