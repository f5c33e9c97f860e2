package client

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/taskmanager/internal/model"
)

// RemoteError is an error reported by the server.
type RemoteError struct {
	Code    codes.Code
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Is lets callers match server-side NotFound with model.ErrNotFound.
func (e *RemoteError) Is(target error) bool {
	return target == model.ErrNotFound && e.Code == codes.NotFound
}

// fromStatus converts gRPC status errors into RemoteError.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	return &RemoteError{Code: st.Code(), Message: st.Message()}
}

// IsUnauthenticated reports whether the server rejected the credentials.
func IsUnauthenticated(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.Code == codes.Unauthenticated
}
