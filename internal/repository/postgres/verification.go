package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/taskmanager/internal/model"
)

var _ model.VerificationStore = (*VerificationRepository)(nil)

type VerificationRepository struct {
	db      *Connection
	builder squirrel.StatementBuilderType
}

func NewVerificationRepository(db *Connection) *VerificationRepository {
	return &VerificationRepository{
		db:      db,
		builder: newBuilder(),
	}
}

func (r *VerificationRepository) Create(ctx context.Context, token model.VerificationToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.builder.
		Insert("verification_tokens").
		Columns("token", "user_id", "expires_at", "consumed_at", "created_at").
		Values(token.Token, token.UserID, token.ExpiresAt, token.ConsumedAt, token.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert verification token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if hasCode(err, foreignKeyViolationCode) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to create verification token: %w", err)
	}

	return nil
}

// Consume marks the token used in a single conditional update. When the
// update matches nothing the token is read back to report why.
func (r *VerificationRepository) Consume(ctx context.Context, token string, now time.Time) (model.VerificationToken, error) {
	query, args, err := r.builder.
		Update("verification_tokens").
		Set("consumed_at", now).
		Where(squirrel.Eq{"token": token, "consumed_at": nil}).
		Where(squirrel.Gt{"expires_at": now}).
		Suffix("RETURNING token, user_id, expires_at, consumed_at, created_at").
		ToSql()
	if err != nil {
		return model.VerificationToken{}, fmt.Errorf("failed to build consume query: %w", err)
	}

	var vt model.VerificationToken
	err = r.db.QueryRow(ctx, query, args...).Scan(&vt.Token, &vt.UserID, &vt.ExpiresAt, &vt.ConsumedAt, &vt.CreatedAt)
	if err == nil {
		return vt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.VerificationToken{}, fmt.Errorf("failed to consume verification token: %w", err)
	}

	existing, err := r.get(ctx, token)
	if err != nil {
		return model.VerificationToken{}, err
	}
	if existing.ConsumedAt != nil {
		return model.VerificationToken{}, model.ErrVerificationConsumed
	}
	return model.VerificationToken{}, model.ErrVerificationExpired
}

func (r *VerificationRepository) get(ctx context.Context, token string) (model.VerificationToken, error) {
	query, args, err := r.builder.
		Select("token", "user_id", "expires_at", "consumed_at", "created_at").
		From("verification_tokens").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return model.VerificationToken{}, fmt.Errorf("failed to build verification token query: %w", err)
	}

	var vt model.VerificationToken
	err = r.db.QueryRow(ctx, query, args...).Scan(&vt.Token, &vt.UserID, &vt.ExpiresAt, &vt.ConsumedAt, &vt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.VerificationToken{}, model.ErrNotFound
		}
		return model.VerificationToken{}, fmt.Errorf("failed to get verification token: %w", err)
	}

	return vt, nil
}
