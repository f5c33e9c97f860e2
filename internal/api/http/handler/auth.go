package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/taskmanager/internal/api/grpc/apiv1"
	"github.com/dtroode/taskmanager/internal/apierrors"
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

// Auth serves the /v1/auth endpoints.
type Auth struct {
	authService  AuthService
	tokenService TokenService
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, tokenService: tokenService, logger: logger}
}

func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req apiv1.SignUpRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.authService.SignUp(r.Context(), model.SignUpRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.logger.Error("Auth handler: sign up failed", "email", req.Email, "error", err.Error())
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, apiv1.SignUpResponse{
		UserId:            result.UserID.String(),
		VerificationSent:  result.VerificationSent,
		VerificationError: result.VerificationError,
	})
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req apiv1.LoginRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed", "email", req.Email, "error", err.Error())
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, apiv1.LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		FirstName:    session.FirstName,
		LastName:     session.LastName,
		Tasks:        toTasks(session.Tasks),
	})
}

func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req apiv1.RefreshRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.RefreshToken == "" {
		WriteError(w, apierrors.NewErrInvalidArgument("refresh token is required"))
		return
	}

	access, refresh, err := h.tokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed", "error", err.Error())
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, apiv1.RefreshResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	var req apiv1.LogoutRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.RefreshToken == "" {
		WriteError(w, apierrors.NewErrInvalidArgument("refresh token is required"))
		return
	}

	if err := h.tokenService.RevokeByToken(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Auth handler: token revoke failed", "error", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// VerifyEmail accepts the token as JSON body or, for links opened in a
// browser, as the token query parameter.
func (h *Auth) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if r.Method == http.MethodPost {
		var req apiv1.VerifyEmailRequest
		if err := decode(r, &req); err != nil {
			WriteError(w, err)
			return
		}
		token = req.Token
	}
	if token == "" {
		WriteError(w, apierrors.NewErrInvalidVerification())
		return
	}

	if err := h.authService.VerifyEmail(r.Context(), token); err != nil {
		h.logger.Error("Auth handler: email verification failed", "error", err.Error())
		WriteError(w, err)
		return
	}

	if r.Method == http.MethodGet {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Your email address is verified. You can log in now.\n"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Auth) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req apiv1.ResendVerificationRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.authService.ResendVerification(r.Context(), req.Email); err != nil {
		h.logger.Error("Auth handler: resend verification failed", "email", req.Email, "error", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
