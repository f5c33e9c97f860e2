package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/taskmanager/internal/model"
)

type mockCollection struct {
	mock.Mock
}

func (m *mockCollection) InsertOne(ctx context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	args := m.Called(ctx, document)
	res, _ := args.Get(0).(*mongo.InsertOneResult)
	return res, args.Error(1)
}

func (m *mockCollection) FindOne(ctx context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	args := m.Called(ctx, filter)
	return args.Get(0).(*mongo.SingleResult)
}

func (m *mockCollection) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, _ ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	args := m.Called(ctx, filter, update)
	return args.Get(0).(*mongo.SingleResult)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestRepository(coll collection) *RecordRepository {
	r := newRecordRepository(coll)
	r.now = func() time.Time { return fixedNow }
	return r
}

func found(doc recordDocument) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}

func missing() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func TestRecordRepository_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("stores empty list and first version", func(t *testing.T) {
		coll := &mockCollection{}
		coll.On("InsertOne", ctx, mock.MatchedBy(func(doc recordDocument) bool {
			return doc.ID == userID.String() && doc.Version == 1 && doc.Tasks != nil && len(doc.Tasks) == 0
		})).Return(&mongo.InsertOneResult{InsertedID: userID.String()}, nil)

		rec, err := newTestRepository(coll).Create(ctx, model.UserRecord{UserID: userID, FirstName: "Alice", LastName: "Doe"})
		require.NoError(t, err)
		assert.Equal(t, userID, rec.UserID)
		assert.Equal(t, int64(1), rec.Version)
		assert.Equal(t, fixedNow, rec.CreatedAt)
		coll.AssertExpectations(t)
	})

	t.Run("duplicate key", func(t *testing.T) {
		coll := &mockCollection{}
		dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
		coll.On("InsertOne", ctx, mock.Anything).Return(nil, dup)

		_, err := newTestRepository(coll).Create(ctx, model.UserRecord{UserID: userID})
		assert.ErrorIs(t, err, model.ErrAlreadyExists)
	})

	t.Run("driver failure", func(t *testing.T) {
		coll := &mockCollection{}
		coll.On("InsertOne", ctx, mock.Anything).Return(nil, errors.New("boom"))

		_, err := newTestRepository(coll).Create(ctx, model.UserRecord{UserID: userID})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrAlreadyExists)
	})
}

func TestRecordRepository_Get(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		coll := &mockCollection{}
		coll.On("FindOne", ctx, bson.M{"_id": userID.String()}).Return(found(recordDocument{
			ID:        userID.String(),
			FirstName: "Alice",
			LastName:  "Doe",
			Tasks:     []model.Task{{ID: "1", Text: "buy milk"}},
			Version:   3,
		}))

		rec, err := newTestRepository(coll).Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", rec.FirstName)
		assert.Equal(t, int64(3), rec.Version)
		assert.Equal(t, []model.Task{{ID: "1", Text: "buy milk"}}, rec.Tasks)
	})

	t.Run("missing tasks field decodes to empty list", func(t *testing.T) {
		coll := &mockCollection{}
		coll.On("FindOne", ctx, mock.Anything).Return(found(recordDocument{ID: userID.String()}))

		rec, err := newTestRepository(coll).Get(ctx, userID)
		require.NoError(t, err)
		assert.NotNil(t, rec.Tasks)
		assert.Empty(t, rec.Tasks)
	})

	t.Run("not found", func(t *testing.T) {
		coll := &mockCollection{}
		coll.On("FindOne", ctx, mock.Anything).Return(missing())

		_, err := newTestRepository(coll).Get(ctx, userID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestRecordRepository_ReplaceTasks(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tasks := []model.Task{{ID: "1", Text: "buy milk"}}

	t.Run("version matches", func(t *testing.T) {
		coll := &mockCollection{}
		coll.On("FindOneAndUpdate", ctx, bson.M{"_id": userID.String(), "version": int64(2)}, mock.MatchedBy(func(u bson.M) bool {
			set := u["$set"].(bson.M)
			return assert.ObjectsAreEqual(tasks, set["tasks"]) && assert.ObjectsAreEqual(bson.M{"version": 1}, u["$inc"])
		})).Return(found(recordDocument{ID: userID.String(), Tasks: tasks, Version: 3}))

		rec, err := newTestRepository(coll).ReplaceTasks(ctx, userID, tasks, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), rec.Version)
		coll.AssertExpectations(t)
	})

	t.Run("stale version", func(t *testing.T) {
		coll := &mockCollection{}
		coll.On("FindOneAndUpdate", ctx, mock.Anything, mock.Anything).Return(missing())
		coll.On("FindOne", ctx, mock.Anything).Return(found(recordDocument{ID: userID.String(), Version: 5}))

		_, err := newTestRepository(coll).ReplaceTasks(ctx, userID, tasks, 2)
		assert.ErrorIs(t, err, model.ErrVersionConflict)
	})

	t.Run("record missing", func(t *testing.T) {
		coll := &mockCollection{}
		coll.On("FindOneAndUpdate", ctx, mock.Anything, mock.Anything).Return(missing())
		coll.On("FindOne", ctx, mock.Anything).Return(missing())

		_, err := newTestRepository(coll).ReplaceTasks(ctx, userID, tasks, 2)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("any version skips the guard", func(t *testing.T) {
		coll := &mockCollection{}
		coll.On("FindOneAndUpdate", ctx, bson.M{"_id": userID.String()}, mock.Anything).Return(missing())

		_, err := newTestRepository(coll).ReplaceTasks(ctx, userID, tasks, model.AnyVersion)
		assert.ErrorIs(t, err, model.ErrNotFound)
		coll.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
	})
}

func TestRecordRepository_ArrayOperators(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	task := model.Task{ID: "1", Text: "buy milk"}

	tests := []struct {
		name     string
		operator string
		call     func(*RecordRepository) (model.UserRecord, error)
	}{
		{
			name:     "append uses addToSet",
			operator: "$addToSet",
			call: func(r *RecordRepository) (model.UserRecord, error) {
				return r.AppendTask(ctx, userID, task)
			},
		},
		{
			name:     "remove uses pull",
			operator: "$pull",
			call: func(r *RecordRepository) (model.UserRecord, error) {
				return r.RemoveTask(ctx, userID, task)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll := &mockCollection{}
			coll.On("FindOneAndUpdate", ctx, bson.M{"_id": userID.String()}, mock.MatchedBy(func(u bson.M) bool {
				op, ok := u[tt.operator].(bson.M)
				return ok && assert.ObjectsAreEqual(task, op["tasks"])
			})).Return(found(recordDocument{ID: userID.String(), Version: 2}))

			rec, err := tt.call(newTestRepository(coll))
			require.NoError(t, err)
			assert.Equal(t, int64(2), rec.Version)
			coll.AssertExpectations(t)
		})
	}
}
