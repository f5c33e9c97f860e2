package mail

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskmanager/internal/logger"
	"github.com/dtroode/taskmanager/internal/model"
)

const contentTypeRFC822 = "message/rfc822"

var _ model.Mailer = (*Outbox)(nil)

// Outbox stores rendered messages in object storage under
// outbox/<yyyy-mm-dd>/<message id>.eml for a relay to pick up.
type Outbox struct {
	storage model.Storage
	from    string
	logger  *logger.Logger
	now     func() time.Time
}

func NewOutbox(storage model.Storage, from string, logger *logger.Logger) *Outbox {
	return &Outbox{
		storage: storage,
		from:    from,
		logger:  logger,
		now:     time.Now,
	}
}

func (o *Outbox) SendVerification(ctx context.Context, msg model.VerificationMessage) error {
	id := uuid.NewString()
	at := o.now().UTC()

	body, err := render(o.from, msg, id, at)
	if err != nil {
		return err
	}

	key := path.Join("outbox", at.Format(time.DateOnly), id+".eml")
	if err := o.storage.Put(ctx, key, contentTypeRFC822, body); err != nil {
		o.logger.Error("Mail outbox: failed to store message", "to", msg.To, "error", err.Error())
		return fmt.Errorf("failed to store verification message: %w", err)
	}

	o.logger.Debug("Mail outbox: message stored", "to", msg.To, "key", key)
	return nil
}
