package mail

import (
	"context"

	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/model"
)

var _ model.Mailer = (*LogMailer)(nil)

// LogMailer writes the verification link to the log. Meant for local runs.
type LogMailer struct {
	logger *logger.Logger
}

func NewLogMailer(logger *logger.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendVerification(_ context.Context, msg model.VerificationMessage) error {
	m.logger.Info("Mailer: verification link", "to", msg.To, "link", msg.Link)
	return nil
}
