package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/taskmanager/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

var userColumns = []string{"id", "email", "password_hash", "email_verified", "created_at", "updated_at"}

type UserRepository struct {
	db      *Connection
	builder squirrel.StatementBuilderType
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db:      db,
		builder: newBuilder(),
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (model.User, error) {
	query, args, err := r.builder.
		Select(userColumns...).
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to build user query: %w", err)
	}

	var user model.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.EmailVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	query, args, err := r.builder.
		Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.PasswordHash, user.EmailVerified, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id, email, password_hash, email_verified, created_at, updated_at").
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to build insert user query: %w", err)
	}

	var saved model.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&saved.ID, &saved.Email, &saved.PasswordHash, &saved.EmailVerified, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		if hasCode(err, uniqueViolationCode) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.builder.
		Update("users").
		Set("email_verified", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build verify user query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// Delete removes the identity. Its record, tokens and verification
// tokens go with it through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.builder.
		Delete("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete user query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
