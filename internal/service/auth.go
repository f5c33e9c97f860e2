package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskmanager/internal/apierrors"
	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/tasklist"
)

const verificationTokenBytes = 32

// AuthOptions tune registration and login.
type AuthOptions struct {
	MinPasswordLength    int
	VerificationTTL      time.Duration
	RequireVerifiedEmail bool
	VerificationURL      string
}

// Auth registers identities and opens sessions for them.
type Auth struct {
	userStore         model.UserStore
	recordStore       model.RecordStore
	verificationStore model.VerificationStore
	hasher            model.PasswordHasher
	mailer            model.Mailer
	tokenService      *TokenService
	opts              AuthOptions
	logger            *logger.Logger
	now               func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	recordStore model.RecordStore,
	verificationStore model.VerificationStore,
	refreshTokenStore model.RefreshTokenStore,
	tokenManager model.TokenManager,
	hasher model.PasswordHasher,
	mailer model.Mailer,
	opts AuthOptions,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:         userStore,
		recordStore:       recordStore,
		verificationStore: verificationStore,
		hasher:            hasher,
		mailer:            mailer,
		tokenService:      NewTokenService(tokenManager, refreshTokenStore, logger),
		opts:              opts,
		logger:            logger,
		now:               time.Now,
	}
}

// Tokens returns the token service sessions are issued with.
func (a *Auth) Tokens() *TokenService {
	return a.tokenService
}

// SignUp creates the identity and its empty user record, then sends the
// verification email. If the record cannot be created the identity is
// removed again so the address stays free.
func (a *Auth) SignUp(ctx context.Context, req model.SignUpRequest) (model.SignUpResult, error) {
	req, err := a.validateSignUp(req)
	if err != nil {
		return model.SignUpResult{}, err
	}

	a.logger.Debug("Auth service: starting user registration", "email", req.Email)

	_, err = a.userStore.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		a.logger.Info("Auth service: email already registered", "email", req.Email)
		return model.SignUpResult{}, apierrors.NewErrEmailIsTaken()
	case !errors.Is(err, model.ErrNotFound):
		a.logger.Error("Auth service: failed to get user by email",
			"email", req.Email,
			"error", err.Error())
		return model.SignUpResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return model.SignUpResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.SignUpResult{}, apierrors.NewErrEmailIsTaken()
		}
		a.logger.Error("Auth service: failed to create user",
			"email", req.Email,
			"error", err.Error())
		return model.SignUpResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	_, err = a.recordStore.Create(ctx, model.UserRecord{
		UserID:    user.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Tasks:     []model.Task{},
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create user record, rolling back identity",
			"user_id", user.ID,
			"error", err.Error())
		if delErr := a.userStore.Delete(ctx, user.ID); delErr != nil {
			a.logger.Error("Auth service: failed to roll back identity",
				"user_id", user.ID,
				"error", delErr.Error())
		}
		return model.SignUpResult{}, fmt.Errorf("failed to create user record: %w", err)
	}

	result := model.SignUpResult{UserID: user.ID}
	if err := a.sendVerification(ctx, user.ID, req.Email, req.FirstName); err != nil {
		a.logger.Warn("Auth service: failed to send verification email",
			"user_id", user.ID,
			"email", req.Email,
			"error", err.Error())
		result.VerificationError = "failed to send verification email"
	} else {
		result.VerificationSent = true
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID,
		"verification_sent", result.VerificationSent)

	return result, nil
}

func (a *Auth) validateSignUp(req model.SignUpRequest) (model.SignUpRequest, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if req.Email == "" || strings.TrimSpace(req.Password) == "" || req.FirstName == "" || req.LastName == "" {
		return req, apierrors.NewErrInvalidArgument(apierrors.MsgFieldsRequired)
	}

	addr, err := mail.ParseAddress(req.Email)
	if err != nil || addr.Address != req.Email {
		return req, apierrors.NewErrInvalidArgument(apierrors.MsgInvalidEmail)
	}

	if len([]rune(req.Password)) < a.opts.MinPasswordLength {
		return req, apierrors.NewErrInvalidArgument(
			fmt.Sprintf("password should be at least %d characters", a.opts.MinPasswordLength))
	}

	return req, nil
}

// VerifyEmail consumes a verification token and marks its identity verified.
func (a *Auth) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apierrors.NewErrInvalidVerification()
	}

	vt, err := a.verificationStore.Consume(ctx, token, a.now())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) ||
			errors.Is(err, model.ErrVerificationExpired) ||
			errors.Is(err, model.ErrVerificationConsumed) {
			a.logger.Info("Auth service: verification rejected", "error", err.Error())
			return apierrors.NewErrInvalidVerification()
		}
		return fmt.Errorf("failed to consume verification token: %w", err)
	}

	if err := a.userStore.MarkVerified(ctx, vt.UserID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrInvalidVerification()
		}
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	a.logger.Info("Auth service: email verified", "user_id", vt.UserID)
	return nil
}

// ResendVerification sends a fresh verification link. Unknown and already
// verified addresses succeed without doing anything.
func (a *Auth) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apierrors.NewErrInvalidArgument(apierrors.MsgInvalidEmail)
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if user.EmailVerified {
		return nil
	}

	var firstName string
	if record, err := a.recordStore.Get(ctx, user.ID); err == nil {
		firstName = record.FirstName
	}

	if err := a.sendVerification(ctx, user.ID, email, firstName); err != nil {
		a.logger.Error("Auth service: failed to resend verification email",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (a *Auth) sendVerification(ctx context.Context, userID uuid.UUID, email, firstName string) error {
	token, err := newVerificationToken()
	if err != nil {
		return err
	}

	now := a.now()
	err = a.verificationStore.Create(ctx, model.VerificationToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(a.opts.VerificationTTL),
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	link, err := verificationLink(a.opts.VerificationURL, token)
	if err != nil {
		return err
	}

	return a.mailer.SendVerification(ctx, model.VerificationMessage{
		To:        email,
		FirstName: firstName,
		Link:      link,
	})
}

// Login checks the credentials, loads the user record and opens a session.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: login for unknown email", "email", email)
			return model.Session{}, apierrors.NewErrInvalidCredentials()
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		a.logger.Info("Auth service: wrong password", "user_id", user.ID)
		return model.Session{}, apierrors.NewErrInvalidCredentials()
	}

	if a.opts.RequireVerifiedEmail && !user.EmailVerified {
		return model.Session{}, apierrors.NewErrEmailNotVerified()
	}

	record, err := a.recordStore.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Warn("Auth service: identity has no user record", "user_id", user.ID)
			return model.Session{}, apierrors.NewErrUserNotFound()
		}
		return model.Session{}, fmt.Errorf("failed to get user record: %w", err)
	}

	access, refresh, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return model.Session{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		FirstName:    record.FirstName,
		LastName:     record.LastName,
		Tasks:        tasklist.Clone(record.Tasks),
	}, nil
}

func newVerificationToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func verificationLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid verification url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
