package handler

import (
	"google.golang.org/grpc/status"

	"github.com/dtroode/taskmanager/internal/apierrors"
)

// handleError converts a service error into a gRPC status.
// Anything that is not an APIError is reported as Internal.
func handleError(err error) error {
	apiErr := apierrors.From(err)
	return status.Error(apiErr.GRPCCode, apiErr.Message)
}
