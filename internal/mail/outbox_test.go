package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskmanager/internal/mocks"
	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/testutil"
)

const sender = "Task Manager <no-reply@taskmanager.local>"

func TestOutbox_SendVerification(t *testing.T) {
	ctx := context.Background()
	storage := mocks.NewStorage(t)

	var key string
	var body []byte
	storage.On("Put", ctx, mock.Anything, "message/rfc822", mock.Anything).Run(func(args mock.Arguments) {
		key = args.String(1)
		body = args.Get(3).([]byte)
	}).Return(nil).Once()

	o := NewOutbox(storage, sender, testutil.MakeNoopLogger())
	o.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	err := o.SendVerification(ctx, model.VerificationMessage{
		To:        "alice@example.com",
		FirstName: "Alice",
		Link:      "http://localhost:8080/v1/auth/verify?token=abc",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "outbox/2024-05-01/"))
	assert.True(t, strings.HasSuffix(key, ".eml"))

	msg := string(body)
	assert.Contains(t, msg, "To: <alice@example.com>\r\n")
	assert.Contains(t, msg, "Subject: Verify your email address\r\n")
	assert.Contains(t, msg, "Hi Alice,")
	assert.Contains(t, msg, "http://localhost:8080/v1/auth/verify?token=abc")
	assert.NotContains(t, strings.ReplaceAll(msg, "\r\n", ""), "\n")
}

func TestOutbox_StorageFailure(t *testing.T) {
	ctx := context.Background()
	storage := mocks.NewStorage(t)
	storage.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Once()

	o := NewOutbox(storage, sender, testutil.MakeNoopLogger())
	err := o.SendVerification(ctx, model.VerificationMessage{To: "alice@example.com", Link: "http://x"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRender_RejectsHeaderInjection(t *testing.T) {
	_, err := render(sender, model.VerificationMessage{
		To:   "alice@example.com\r\nBcc: eve@example.com",
		Link: "http://x",
	}, "id", time.Now())
	assert.ErrorIs(t, err, errHeaderInjection)
}

func TestRender_InvalidRecipient(t *testing.T) {
	_, err := render(sender, model.VerificationMessage{To: "not an address", Link: "http://x"}, "id", time.Now())
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	m := NewLogMailer(testutil.MakeNoopLogger())
	assert.NoError(t, m.SendVerification(context.Background(), model.VerificationMessage{To: "a@b.c"}))
}
