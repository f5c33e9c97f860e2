// Package apitest runs the gRPC API over in-memory stores for tests.
package apitest

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	grpccontext "github.com/dtroode/taskmanager/internal/api/grpc/context"
	"github.com/dtroode/taskmanager/internal/api/grpc/router"
	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/password"
	"github.com/dtroode/taskmanager/internal/service"
	"github.com/dtroode/taskmanager/internal/testutil"
	"github.com/dtroode/taskmanager/internal/token"
)

// Server is a running API backed by memory stores.
type Server struct {
	Addr    string
	Records *testutil.MemoryRecordStore
	Mailer  *testutil.RecordingMailer
	Auth    *service.Auth
}

// Start serves the gRPC API on a loopback port until the test ends.
func Start(t *testing.T) *Server {
	t.Helper()

	log := testutil.MakeNoopLogger()
	records := testutil.NewMemoryRecordStore()
	mailer := &testutil.RecordingMailer{}
	auth := service.NewAuth(
		testutil.NewMemoryUserStore(),
		records,
		testutil.NewMemoryVerificationStore(),
		testutil.NewMemoryRefreshTokenStore(),
		token.NewJWT("secret"),
		password.NewBcrypt(4),
		mailer,
		service.AuthOptions{MinPasswordLength: 6, VerificationTTL: time.Hour, VerificationURL: "http://localhost/v1/auth/verify"},
		log,
	)
	tasks := service.NewTasks(records, service.TasksOptions{Strategy: model.WriteStrategyCAS, MaxRetries: 3}, log)

	s := router.New(auth, tasks, auth.Tokens(), grpccontext.NewManager(), log).Register()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	return &Server{
		Addr:    lis.Addr().String(),
		Records: records,
		Mailer:  mailer,
		Auth:    auth,
	}
}
