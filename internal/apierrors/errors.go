// Package apierrors defines errors whose message is safe to show to API clients.
package apierrors

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
)

// User-facing messages shared by services and clients.
const (
	MsgInvalidCredentials  = "Invalid credentials."
	MsgUserNotFound        = "No user found!"
	MsgEmailTaken          = "email address is already in use"
	MsgInvalidEmail        = "invalid email address"
	MsgFieldsRequired      = "all fields are required"
	MsgEmailNotVerified    = "Email address is not verified."
	MsgInvalidVerification = "verification link is invalid or expired"
	MsgRecordNotFound      = "No user data found"
	MsgTaskNotFound        = "task not found"
	MsgTaskTextRequired    = "task text is required"
	MsgConcurrentUpdate    = "task list was modified concurrently, reload and retry"
	MsgMissingToken        = "missing authorization token"
	MsgInvalidToken        = "invalid authorization token"
	MsgInternal            = "internal server error"
)

// APIError is an error carrying a client-visible message and a status code.
type APIError struct {
	GRPCCode codes.Code
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the gRPC code to an HTTP status.
func (e *APIError) HTTPStatus() int {
	switch e.GRPCCode {
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// New creates an APIError.
func New(code codes.Code, message string) *APIError {
	return &APIError{GRPCCode: code, Message: message}
}

// From returns err as an APIError, or an internal error wrapping it.
func From(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewErrInternalServerError(err)
}

func NewErrInvalidCredentials() *APIError {
	return New(codes.Unauthenticated, MsgInvalidCredentials)
}

func NewErrUserNotFound() *APIError {
	return New(codes.NotFound, MsgUserNotFound)
}

func NewErrEmailIsTaken() *APIError {
	return New(codes.AlreadyExists, MsgEmailTaken)
}

func NewErrEmailNotVerified() *APIError {
	return New(codes.FailedPrecondition, MsgEmailNotVerified)
}

func NewErrInvalidVerification() *APIError {
	return New(codes.InvalidArgument, MsgInvalidVerification)
}

func NewErrInvalidArgument(message string) *APIError {
	return New(codes.InvalidArgument, message)
}

func NewErrRecordNotFound() *APIError {
	return New(codes.NotFound, MsgRecordNotFound)
}

func NewErrTaskNotFound() *APIError {
	return New(codes.NotFound, MsgTaskNotFound)
}

func NewErrConcurrentUpdate() *APIError {
	return New(codes.Aborted, MsgConcurrentUpdate)
}

func NewErrMissingAuthorizationToken() *APIError {
	return New(codes.Unauthenticated, MsgMissingToken)
}

func NewErrInvalidAuthorizationToken() *APIError {
	return New(codes.Unauthenticated, MsgInvalidToken)
}

// NewErrInternalServerError hides err behind a generic message.
func NewErrInternalServerError(err error) *APIError {
	return &APIError{GRPCCode: codes.Internal, Message: MsgInternal, Err: err}
}
