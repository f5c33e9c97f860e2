package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VerificationStore persists email verification tokens.
type VerificationStore interface {
	Create(ctx context.Context, token VerificationToken) error
	// Consume marks the token used and returns it. Unknown tokens yield
	// ErrNotFound, used ones ErrVerificationConsumed and stale ones
	// ErrVerificationExpired.
	Consume(ctx context.Context, token string, now time.Time) (VerificationToken, error)
}

// VerificationToken proves ownership of the email address of UserID.
type VerificationToken struct {
	Token      string
	UserID     uuid.UUID
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// Mailer delivers transactional emails.
type Mailer interface {
	SendVerification(ctx context.Context, msg VerificationMessage) error
}

// VerificationMessage is the content of an email verification mail.
type VerificationMessage struct {
	To        string
	FirstName string
	Link      string
}
