package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/taskmanager/internal/api/grpc/context"
	grpcrouter "github.com/dtroode/taskmanager/internal/api/grpc/router"
	grpcServer "github.com/dtroode/taskmanager/internal/api/grpc/server"
	httpctx "github.com/dtroode/taskmanager/internal/api/http/context"
	"github.com/dtroode/taskmanager/internal/api/http/handler"
	httprouter "github.com/dtroode/taskmanager/internal/api/http/router"
	httpServer "github.com/dtroode/taskmanager/internal/api/http/server"
	"github.com/dtroode/taskmanager/internal/config"
	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/mail"
	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/password"
	"github.com/dtroode/taskmanager/internal/repository/mongodb"
	"github.com/dtroode/taskmanager/internal/repository/postgres"
	"github.com/dtroode/taskmanager/internal/server"
	"github.com/dtroode/taskmanager/internal/service"
	storage "github.com/dtroode/taskmanager/internal/storage/minio"
	"github.com/dtroode/taskmanager/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	pingers := []handler.Pinger{db}

	var recordStore model.RecordStore
	switch cfg.Documents.Backend {
	case config.BackendMongo:
		mongoConn, err := mongodb.NewConnection(ctx, cfg.Documents.MongoURI, cfg.Documents.MongoDatabase)
		if err != nil {
			logger.Fatal("failed to connect to mongodb", "error", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = mongoConn.Close(closeCtx)
		}()
		recordStore = mongodb.NewRecordRepository(mongoConn)
		pingers = append(pingers, mongoConn)
	default:
		recordStore = postgres.NewRecordRepository(db)
	}

	mailer, err := newMailer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize mailer", "error", err)
	}

	authService := service.NewAuth(
		postgres.NewUserRepository(db),
		recordStore,
		postgres.NewVerificationRepository(db),
		postgres.NewRefreshTokenRepository(db),
		token.NewJWT(cfg.JWT.Secret),
		password.NewBcrypt(cfg.Auth.BcryptCost),
		mailer,
		service.AuthOptions{
			MinPasswordLength:    cfg.Auth.MinPasswordLength,
			VerificationTTL:      cfg.Auth.VerificationTTL,
			RequireVerifiedEmail: cfg.Auth.RequireVerifiedEmail,
			VerificationURL:      cfg.Auth.VerificationURL,
		},
		logger,
	)
	tasksService := service.NewTasks(recordStore, service.TasksOptions{
		Strategy:   cfg.Documents.WriteStrategy,
		MaxRetries: cfg.Documents.MaxRetries,
	}, logger)
	tokenService := authService.Tokens()

	grpcSrv := registerGRPCServer(logger, authService, tasksService, tokenService, fmt.Sprintf(":%s", cfg.GRPC.Port))
	httpSrv := registerHTTPServer(logger, authService, tasksService, tokenService, cfg.HTTP.AllowedOrigins, pingers, fmt.Sprintf(":%s", cfg.HTTP.Port))

	servers := []struct {
		srv model.Server
		sl  model.SecurityLayer
	}{
		{srv: grpcSrv, sl: server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)},
		{srv: httpSrv, sl: server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)},
	}

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s.srv, s.sl)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.srv.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.srv.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func newMailer(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.Mailer, error) {
	if cfg.Mail.Driver == config.MailDriverLog {
		return mail.NewLogMailer(logger), nil
	}

	storageClient, err := storage.Connect(ctx, storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	return mail.NewOutbox(storageClient, cfg.Mail.From, logger), nil
}

func registerGRPCServer(
	logger *logger.Logger,
	authService *service.Auth,
	tasksService *service.Tasks,
	tokenService *service.TokenService,
	addr string,
) *grpcServer.GRPCServer {
	r := grpcrouter.New(authService, tasksService, tokenService, grpcctx.NewManager(), logger)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}

func registerHTTPServer(
	logger *logger.Logger,
	authService *service.Auth,
	tasksService *service.Tasks,
	tokenService *service.TokenService,
	allowedOrigins []string,
	pingers []handler.Pinger,
	addr string,
) *httpServer.HTTPServer {
	r := httprouter.New(authService, tasksService, tokenService, httpctx.NewManager(), allowedOrigins, logger, pingers...)
	return httpServer.NewHTTPServer(r.Register(), addr)
}
