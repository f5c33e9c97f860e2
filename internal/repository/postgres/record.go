package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/taskmanager/internal/model"
)

var _ model.RecordStore = (*RecordRepository)(nil)

const recordReturning = "RETURNING user_id, first_name, last_name, tasks, version, created_at, updated_at"

type RecordRepository struct {
	db      *Connection
	builder squirrel.StatementBuilderType
}

func NewRecordRepository(db *Connection) *RecordRepository {
	return &RecordRepository{
		db:      db,
		builder: newBuilder(),
	}
}

func (r *RecordRepository) Create(ctx context.Context, record model.UserRecord) (model.UserRecord, error) {
	tasks, err := encodeTasks(record.Tasks)
	if err != nil {
		return model.UserRecord{}, err
	}
	now := time.Now().UTC()
	if record.Version <= 0 {
		record.Version = 1
	}

	query, args, err := r.builder.
		Insert("user_records").
		Columns("user_id", "first_name", "last_name", "tasks", "version", "created_at", "updated_at").
		Values(record.UserID, record.FirstName, record.LastName, tasks, record.Version, now, now).
		Suffix(recordReturning).
		ToSql()
	if err != nil {
		return model.UserRecord{}, fmt.Errorf("failed to build insert record query: %w", err)
	}

	saved, err := r.scanOne(ctx, query, args)
	if err != nil {
		switch {
		case hasCode(err, uniqueViolationCode):
			return model.UserRecord{}, model.ErrAlreadyExists
		case hasCode(err, foreignKeyViolationCode):
			return model.UserRecord{}, model.ErrNotFound
		}
		return model.UserRecord{}, fmt.Errorf("failed to create record: %w", err)
	}

	return saved, nil
}

func (r *RecordRepository) Get(ctx context.Context, userID uuid.UUID) (model.UserRecord, error) {
	query, args, err := r.builder.
		Select("user_id", "first_name", "last_name", "tasks", "version", "created_at", "updated_at").
		From("user_records").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return model.UserRecord{}, fmt.Errorf("failed to build record query: %w", err)
	}

	record, err := r.scanOne(ctx, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserRecord{}, model.ErrNotFound
		}
		return model.UserRecord{}, fmt.Errorf("failed to get record: %w", err)
	}

	return record, nil
}

func (r *RecordRepository) ReplaceTasks(ctx context.Context, userID uuid.UUID, tasks []model.Task, expectedVersion int64) (model.UserRecord, error) {
	query, args, err := r.replaceTasksQuery(userID, tasks, expectedVersion)
	if err != nil {
		return model.UserRecord{}, err
	}

	record, err := r.scanOne(ctx, query, args)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.UserRecord{}, fmt.Errorf("failed to replace tasks: %w", err)
	}
	if expectedVersion == model.AnyVersion {
		return model.UserRecord{}, model.ErrNotFound
	}

	// Either the record is gone or someone else wrote first.
	if _, err := r.Get(ctx, userID); err != nil {
		return model.UserRecord{}, err
	}
	return model.UserRecord{}, model.ErrVersionConflict
}

// replaceTasksQuery builds the UPDATE for ReplaceTasks. Unless expectedVersion
// is model.AnyVersion the row only matches at that version.
func (r *RecordRepository) replaceTasksQuery(userID uuid.UUID, tasks []model.Task, expectedVersion int64) (string, []any, error) {
	encoded, err := encodeTasks(tasks)
	if err != nil {
		return "", nil, err
	}

	where := squirrel.Eq{"user_id": userID}
	if expectedVersion != model.AnyVersion {
		where["version"] = expectedVersion
	}

	query, args, err := r.builder.
		Update("user_records").
		Set("tasks", squirrel.Expr("?::jsonb", encoded)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(where).
		Suffix(recordReturning).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build replace tasks query: %w", err)
	}
	return query, args, nil
}

// AppendTask adds task unless an equal element is already in the array.
func (r *RecordRepository) AppendTask(ctx context.Context, userID uuid.UUID, task model.Task) (model.UserRecord, error) {
	encoded, err := json.Marshal(task)
	if err != nil {
		return model.UserRecord{}, fmt.Errorf("failed to encode task: %w", err)
	}

	query, args, err := r.builder.
		Update("user_records").
		Set("tasks", squirrel.Expr(
			"CASE WHEN tasks @> jsonb_build_array(?::jsonb) THEN tasks ELSE tasks || jsonb_build_array(?::jsonb) END",
			encoded, encoded,
		)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix(recordReturning).
		ToSql()
	if err != nil {
		return model.UserRecord{}, fmt.Errorf("failed to build append task query: %w", err)
	}

	return r.mutate(ctx, query, args, "append task")
}

// RemoveTask drops every array element equal to task, keeping the order of the rest.
func (r *RecordRepository) RemoveTask(ctx context.Context, userID uuid.UUID, task model.Task) (model.UserRecord, error) {
	encoded, err := json.Marshal(task)
	if err != nil {
		return model.UserRecord{}, fmt.Errorf("failed to encode task: %w", err)
	}

	query, args, err := r.builder.
		Update("user_records").
		Set("tasks", squirrel.Expr(
			"COALESCE((SELECT jsonb_agg(e.value ORDER BY e.ord) FROM jsonb_array_elements(tasks) WITH ORDINALITY AS e(value, ord) WHERE e.value <> ?::jsonb), '[]'::jsonb)",
			encoded,
		)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix(recordReturning).
		ToSql()
	if err != nil {
		return model.UserRecord{}, fmt.Errorf("failed to build remove task query: %w", err)
	}

	return r.mutate(ctx, query, args, "remove task")
}

func (r *RecordRepository) mutate(ctx context.Context, query string, args []any, op string) (model.UserRecord, error) {
	record, err := r.scanOne(ctx, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserRecord{}, model.ErrNotFound
		}
		return model.UserRecord{}, fmt.Errorf("failed to %s: %w", op, err)
	}
	return record, nil
}

func (r *RecordRepository) scanOne(ctx context.Context, query string, args []any) (model.UserRecord, error) {
	var (
		record model.UserRecord
		tasks  []byte
	)
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&record.UserID, &record.FirstName, &record.LastName, &tasks,
		&record.Version, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return model.UserRecord{}, err
	}

	record.Tasks, err = decodeTasks(tasks)
	if err != nil {
		return model.UserRecord{}, err
	}
	return record, nil
}

func encodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return b, nil
}

func decodeTasks(b []byte) ([]model.Task, error) {
	tasks := []model.Task{}
	if len(b) == 0 {
		return tasks, nil
	}
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}
