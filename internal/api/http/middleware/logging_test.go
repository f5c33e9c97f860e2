package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/taskmanager/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "ok", status: http.StatusOK, wantLevel: "level=INFO"},
		{name: "client error", status: http.StatusNotFound, wantLevel: "level=WARN"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := NewLogging(logger.NewWithWriter(&buf, 0))
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			rec := httptest.NewRecorder()
			l.Handle(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tasks", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, buf.String(), tt.wantLevel)
			assert.Contains(t, buf.String(), "path=/v1/tasks")
		})
	}
}
