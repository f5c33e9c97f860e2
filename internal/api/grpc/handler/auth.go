package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/taskmanager/internal/api/grpc/apiv1"
	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/model"
)

// AuthService defines registration, verification and login operations.
type AuthService interface {
	SignUp(ctx context.Context, req model.SignUpRequest) (model.SignUpResult, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (model.Session, error)
}

// TokenService defines token refresh and revoke operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
	RevokeByToken(ctx context.Context, refreshToken string) error
}

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	apiv1.UnimplementedAuthServer
	authService  AuthService
	tokenService TokenService
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		authService:  authService,
		tokenService: tokenService,
		logger:       logger,
	}
}

// SignUp registers a new identity and its empty task record.
func (h *Auth) SignUp(ctx context.Context, req *apiv1.SignUpRequest) (*apiv1.SignUpResponse, error) {
	h.logger.Debug("Auth handler: processing sign up request",
		"email", req.Email)

	result, err := h.authService.SignUp(ctx, model.SignUpRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.logger.Error("Auth handler: sign up failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: sign up completed",
		"user_id", result.UserID,
		"verification_sent", result.VerificationSent)

	return &apiv1.SignUpResponse{
		UserId:            result.UserID.String(),
		VerificationSent:  result.VerificationSent,
		VerificationError: result.VerificationError,
	}, nil
}

// VerifyEmail consumes a verification token.
func (h *Auth) VerifyEmail(ctx context.Context, req *apiv1.VerifyEmailRequest) (*emptypb.Empty, error) {
	if req.Token == "" {
		return nil, status.Error(codes.InvalidArgument, "verification token is required")
	}

	if err := h.authService.VerifyEmail(ctx, req.Token); err != nil {
		h.logger.Error("Auth handler: email verification failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	return &emptypb.Empty{}, nil
}

// ResendVerification issues a fresh verification link.
func (h *Auth) ResendVerification(ctx context.Context, req *apiv1.ResendVerificationRequest) (*emptypb.Empty, error) {
	if err := h.authService.ResendVerification(ctx, req.Email); err != nil {
		h.logger.Error("Auth handler: resend verification failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &emptypb.Empty{}, nil
}

// Login authenticates the user and returns the session with its record.
func (h *Auth) Login(ctx context.Context, req *apiv1.LoginRequest) (*apiv1.LoginResponse, error) {
	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	session, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: login completed",
		"user_id", session.UserID)

	return &apiv1.LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		FirstName:    session.FirstName,
		LastName:     session.LastName,
		Tasks:        toProtoTasks(session.Tasks),
	}, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (h *Auth) Refresh(ctx context.Context, req *apiv1.RefreshRequest) (*apiv1.RefreshResponse, error) {
	h.logger.Debug("Auth handler: processing token refresh request")

	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}

	accessToken, refreshToken, err := h.tokenService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: token refresh successful")

	return &apiv1.RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes a refresh token.
func (h *Auth) Logout(ctx context.Context, req *apiv1.LogoutRequest) (*emptypb.Empty, error) {
	h.logger.Debug("Auth handler: processing logout request")

	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}

	if err := h.tokenService.RevokeByToken(ctx, req.RefreshToken); err != nil {
		h.logger.Error("Auth handler: token revoke failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: token revoke successful")

	return &emptypb.Empty{}, nil
}
