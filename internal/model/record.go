package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WriteStrategy selects how task mutations reach the record store.
type WriteStrategy string

const (
	// WriteStrategyCAS replaces the whole list guarded by the record version
	// and retries on conflict.
	WriteStrategyCAS WriteStrategy = "cas"
	// WriteStrategyLegacy uses array union for adds, value removal for
	// deletes and unguarded text-matched replaces for toggle and update.
	WriteStrategyLegacy WriteStrategy = "legacy"
)

// AnyVersion disables the version check of RecordStore.ReplaceTasks.
const AnyVersion int64 = -1

// RecordStore is the per-user document store. One record exists per identity.
type RecordStore interface {
	// Create stores a new record. It fails with ErrAlreadyExists
	// if a record for the user is already present.
	Create(ctx context.Context, record UserRecord) (UserRecord, error)
	// Get returns the user's record or ErrNotFound.
	Get(ctx context.Context, userID uuid.UUID) (UserRecord, error)
	// ReplaceTasks overwrites the whole task list. Unless expectedVersion is
	// AnyVersion, the write only succeeds when the stored version matches,
	// otherwise ErrVersionConflict is returned.
	ReplaceTasks(ctx context.Context, userID uuid.UUID, tasks []Task, expectedVersion int64) (UserRecord, error)
	// AppendTask adds task to the end of the list unless an equal entry
	// is already present (array-union semantics).
	AppendTask(ctx context.Context, userID uuid.UUID, task Task) (UserRecord, error)
	// RemoveTask removes every entry structurally equal to task.
	RemoveTask(ctx context.Context, userID uuid.UUID, task Task) (UserRecord, error)
}

// UserRecord is the document holding a user's profile and task list.
type UserRecord struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Tasks     []Task
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
