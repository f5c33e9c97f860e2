package handler

import (
	"context"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/dtroode/taskmanager/internal/apierrors"
	"github.com/dtroode/taskmanager/internal/logger"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health serves /healthz.
type Health struct {
	pingers []Pinger
	logger  *logger.Logger
}

// NewHealth creates a health handler that pings every given store.
func NewHealth(logger *logger.Logger, pingers ...Pinger) *Health {
	return &Health{pingers: pingers, logger: logger}
}

func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	for _, p := range h.pingers {
		if err := p.Ping(r.Context()); err != nil {
			h.logger.Error("Health handler: store unreachable", "error", err.Error())
			WriteError(w, apierrors.New(codes.Unavailable, "store unavailable"))
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
