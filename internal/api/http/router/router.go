package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/dtroode/taskmanager/internal/api/http/handler"
	"github.com/dtroode/taskmanager/internal/api/http/middleware"
	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/model"
)

const requestTimeout = 30 * time.Second

// TokenService refreshes, revokes and resolves tokens.
type TokenService interface {
	handler.TokenService
	middleware.TokenService
}

// Router wires the HTTP endpoints of the API.
type Router struct {
	authService    handler.AuthService
	tasksService   handler.TasksService
	tokenService   TokenService
	contextManager model.ContextManager
	allowedOrigins []string
	pingers        []handler.Pinger
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService handler.AuthService,
	tasksService handler.TasksService,
	tokenService TokenService,
	contextManager model.ContextManager,
	allowedOrigins []string,
	logger *logger.Logger,
	pingers ...handler.Pinger,
) *Router {
	return &Router{
		authService:    authService,
		tasksService:   tasksService,
		tokenService:   tokenService,
		contextManager: contextManager,
		allowedOrigins: allowedOrigins,
		pingers:        pingers,
		logger:         logger,
	}
}

// Register builds the handler tree.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.authService, r.tokenService, r.logger)
	tasksHandler := handler.NewTasks(r.tasksService, r.contextManager, r.logger)
	healthHandler := handler.NewHealth(r.logger, r.pingers...)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(chimiddleware.Timeout(requestTimeout))
	mux.Use(cors.New(cors.Options{
		AllowedOrigins: r.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)

	mux.Get("/healthz", healthHandler.Check)

	mux.Route("/v1/auth", func(ar chi.Router) {
		ar.Post("/signup", authHandler.SignUp)
		ar.Post("/login", authHandler.Login)
		ar.Post("/refresh", authHandler.Refresh)
		ar.Post("/logout", authHandler.Logout)
		ar.Post("/verify", authHandler.VerifyEmail)
		ar.Get("/verify", authHandler.VerifyEmail)
		ar.Post("/verification/resend", authHandler.ResendVerification)
	})

	mux.Group(func(pr chi.Router) {
		pr.Use(authenticate.Handle)
		pr.Get("/v1/me", tasksHandler.GetRecord)
		pr.Route("/v1/tasks", func(tr chi.Router) {
			tr.Get("/", tasksHandler.ListTasks)
			tr.Post("/", tasksHandler.AddTask)
			tr.Patch("/{id}", tasksHandler.UpdateTask)
			tr.Post("/{id}/toggle", tasksHandler.ToggleTask)
			tr.Delete("/{id}", tasksHandler.DeleteTask)
		})
	})

	return mux
}
