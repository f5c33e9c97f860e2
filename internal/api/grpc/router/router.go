package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/dtroode/taskmanager/internal/api/grpc/apiv1"
	"github.com/dtroode/taskmanager/internal/api/grpc/handler"
	"github.com/dtroode/taskmanager/internal/api/grpc/middleware"
	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/model"
)

// TokenService refreshes, revokes and resolves tokens.
type TokenService interface {
	handler.TokenService
	middleware.TokenService
}

// Router wires the taskmanager.v1 services and their interceptors.
type Router struct {
	authService    handler.AuthService
	tasksService   handler.TasksService
	tokenService   TokenService
	logger         *logger.Logger
	contextManager model.ContextManager
}

// New creates new gRPC Router instance.
func New(
	authService handler.AuthService,
	tasksService handler.TasksService,
	tokenService TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tasksService:   tasksService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// authSkip reports whether a call needs a bearer token.
// Everything except the Auth service does.
func authSkip(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/"+apiv1.AuthServiceName+"/")
}

// Register builds the gRPC server with request logging, panic recovery
// and authentication interceptors, and registers all services on it.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)
	recoveryOpt := recovery.WithRecoveryHandler(logging.Recover)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoveryOpt),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authSkip),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoveryOpt),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authSkip),
			),
		),
	)
	r.registerAuthRoutes(s)
	r.registerTasksRoutes(s)

	return s
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.authService, r.tokenService, r.logger)
	apiv1.RegisterAuthServer(server, authHandler)
}

func (r *Router) registerTasksRoutes(server *grpc.Server) {
	tasksHandler := handler.NewTasks(r.tasksService, r.contextManager, r.logger)
	apiv1.RegisterTasksServer(server, tasksHandler)
}
