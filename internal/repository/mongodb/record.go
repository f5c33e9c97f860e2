package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/taskmanager/internal/model"
)

var _ model.RecordStore = (*RecordRepository)(nil)

// collection is the subset of *mongo.Collection used by RecordRepository.
type collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
}

type recordDocument struct {
	ID        string       `bson:"_id"`
	FirstName string       `bson:"first_name"`
	LastName  string       `bson:"last_name"`
	Tasks     []model.Task `bson:"tasks"`
	Version   int64        `bson:"version"`
	CreatedAt time.Time    `bson:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

func (d recordDocument) toModel() (model.UserRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.UserRecord{}, fmt.Errorf("invalid record id %q: %w", d.ID, err)
	}
	tasks := d.Tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	return model.UserRecord{
		UserID:    id,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Tasks:     tasks,
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

type RecordRepository struct {
	coll collection
	now  func() time.Time
}

func NewRecordRepository(conn *Connection) *RecordRepository {
	return newRecordRepository(conn.Records())
}

func newRecordRepository(coll collection) *RecordRepository {
	return &RecordRepository{
		coll: coll,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *RecordRepository) Create(ctx context.Context, record model.UserRecord) (model.UserRecord, error) {
	now := r.now()
	doc := recordDocument{
		ID:        record.UserID.String(),
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Tasks:     record.Tasks,
		Version:   record.Version,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.Tasks == nil {
		doc.Tasks = []model.Task{}
	}
	if doc.Version <= 0 {
		doc.Version = 1
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.UserRecord{}, model.ErrAlreadyExists
		}
		return model.UserRecord{}, fmt.Errorf("failed to create record: %w", err)
	}

	return doc.toModel()
}

func (r *RecordRepository) Get(ctx context.Context, userID uuid.UUID) (model.UserRecord, error) {
	var doc recordDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.UserRecord{}, model.ErrNotFound
		}
		return model.UserRecord{}, fmt.Errorf("failed to get record: %w", err)
	}
	return doc.toModel()
}

func (r *RecordRepository) ReplaceTasks(ctx context.Context, userID uuid.UUID, tasks []model.Task, expectedVersion int64) (model.UserRecord, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}

	filter := bson.M{"_id": userID.String()}
	if expectedVersion != model.AnyVersion {
		filter["version"] = expectedVersion
	}

	record, err := r.update(ctx, filter, bson.M{"$set": bson.M{"tasks": tasks}})
	if err == nil || !errors.Is(err, model.ErrNotFound) || expectedVersion == model.AnyVersion {
		return record, err
	}

	if _, err := r.Get(ctx, userID); err != nil {
		return model.UserRecord{}, err
	}
	return model.UserRecord{}, model.ErrVersionConflict
}

// AppendTask uses $addToSet, so an equal element is never added twice.
func (r *RecordRepository) AppendTask(ctx context.Context, userID uuid.UUID, task model.Task) (model.UserRecord, error) {
	return r.update(ctx, bson.M{"_id": userID.String()}, bson.M{"$addToSet": bson.M{"tasks": task}})
}

// RemoveTask uses $pull, which drops every equal element.
func (r *RecordRepository) RemoveTask(ctx context.Context, userID uuid.UUID, task model.Task) (model.UserRecord, error) {
	return r.update(ctx, bson.M{"_id": userID.String()}, bson.M{"$pull": bson.M{"tasks": task}})
}

func (r *RecordRepository) update(ctx context.Context, filter bson.M, change bson.M) (model.UserRecord, error) {
	set, _ := change["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		change["$set"] = set
	}
	set["updated_at"] = r.now()
	change["$inc"] = bson.M{"version": 1}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc recordDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, change, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.UserRecord{}, model.ErrNotFound
		}
		return model.UserRecord{}, fmt.Errorf("failed to update record: %w", err)
	}
	return doc.toModel()
}
